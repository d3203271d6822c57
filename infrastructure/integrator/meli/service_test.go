package meli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	melidomain "github.com/vendalytics/sales-sync-api/infrastructure/integrator/meli/domain"
	"github.com/vendalytics/sales-sync-api/internal/config"
	"github.com/vendalytics/sales-sync-api/internal/domain"
)

func float64Ptr(v float64) *float64 {
	return &v
}

func testAccount() *domain.Account {
	return &domain.Account{
		ID:               "ACC001",
		UserID:           42,
		Platform:         domain.PlatformMeli,
		ExternalSellerID: "123456",
		Nickname:         "LOJA TESTE",
	}
}

func testOrder() *melidomain.Order {
	return &melidomain.Order{
		ID:          2000001,
		Status:      "paid",
		DateCreated: time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC),
		TotalAmount: 150,
		Buyer:       melidomain.Buyer{ID: 99, Nickname: "COMPRADOR"},
		OrderItems: []melidomain.OrderItem{
			{
				Item:          melidomain.Item{ID: "MLB1", Title: "Produto Teste", SellerSKU: "SKU-1"},
				Quantity:      1,
				UnitPrice:     150,
				SaleFee:       18.5,
				ListingTypeID: "gold_special",
			},
		},
		Shipping: melidomain.OrderShipping{ID: 555, Mode: "me2", Cost: float64Ptr(30)},
	}
}

func TestIntegrator_Transform(t *testing.T) {
	integrator := New(&config.Config{}, nil)
	acc := testAccount()

	t.Run("Prefere o custo da shipping_option ao do envio e do pedido", func(t *testing.T) {
		order := testOrder()
		order.Shipment = &melidomain.Shipment{
			ID:           555,
			Status:       "delivered",
			LogisticType: "cross_docking",
			Cost:         float64Ptr(25),
			ShippingOption: melidomain.ShippingOption{
				Cost: float64Ptr(19.9),
			},
		}

		sale, err := integrator.Transform(acc, order)
		require.NoError(t, err)

		// Despesa do vendedor entra negativa
		assert.Equal(t, "-19.9", sale.FreightCost.String())
		assert.Equal(t, "Coleta", sale.LogisticType)
		assert.Equal(t, "delivered", sale.ShippingStatus)
		assert.Equal(t, "555", sale.ShipmentID)
	})

	t.Run("Sem envio usa o custo do nível do pedido", func(t *testing.T) {
		order := testOrder()

		sale, err := integrator.Transform(acc, order)
		require.NoError(t, err)

		assert.Equal(t, "-30", sale.FreightCost.String())
	})

	t.Run("Não-FLEX abaixo de 79 zera o frete via override", func(t *testing.T) {
		order := testOrder()
		order.TotalAmount = 59.9
		order.OrderItems[0].UnitPrice = 59.9
		order.Shipment = &melidomain.Shipment{
			ID:           555,
			LogisticType: "xd_drop_off",
			Cost:         float64Ptr(21.9),
		}

		sale, err := integrator.Transform(acc, order)
		require.NoError(t, err)

		// Override de zero é valor legítimo, não ausência de override
		assert.True(t, sale.FreightOverride.Valid)
		assert.True(t, sale.FreightOverride.Value.IsZero())
		assert.True(t, sale.EffectiveFreight().IsZero())
	})

	t.Run("FLEX recebe subsídio por unidade", func(t *testing.T) {
		order := testOrder()
		order.TotalAmount = 300
		order.OrderItems[0].Quantity = 2
		order.OrderItems[0].UnitPrice = 150
		order.Shipment = &melidomain.Shipment{
			ID:           555,
			LogisticType: "self_service",
		}

		sale, err := integrator.Transform(acc, order)
		require.NoError(t, err)

		assert.True(t, sale.FreightOverride.Valid)
		assert.Equal(t, "9.8", sale.FreightOverride.Value.String())
		assert.Equal(t, "FLEX", sale.FreightOverride.Source)
		assert.Equal(t, "FLEX", sale.LogisticType)
	})

	t.Run("Acima de 79 sem FLEX não há override", func(t *testing.T) {
		order := testOrder()
		order.Shipment = &melidomain.Shipment{
			ID:           555,
			LogisticType: "drop_off",
			Cost:         float64Ptr(21.9),
		}

		sale, err := integrator.Transform(acc, order)
		require.NoError(t, err)

		assert.False(t, sale.FreightOverride.Valid)
		assert.Equal(t, "-21.9", sale.EffectiveFreight().String())
	})

	t.Run("Taxa da plataforma armazenada negativa e margem estimada sem CMV", func(t *testing.T) {
		order := testOrder()

		sale, err := integrator.Transform(acc, order)
		require.NoError(t, err)

		assert.Equal(t, "-18.5", sale.PlatformFee.String())
		assert.True(t, sale.MarginEstimated)
		// 150 - 18.5 - 30 = 101.5
		assert.Equal(t, "101.5", sale.ContributionMargin.String())
	})

	t.Run("Campos descritivos e identidade", func(t *testing.T) {
		order := testOrder()

		sale, err := integrator.Transform(acc, order)
		require.NoError(t, err)

		assert.Equal(t, "2000001", sale.OrderID)
		assert.Equal(t, domain.PlatformMeli, sale.Platform)
		assert.Equal(t, 42, sale.UserID)
		assert.Equal(t, "ACC001", sale.AccountID)
		assert.Equal(t, "Produto Teste", sale.Title)
		assert.Equal(t, "SKU-1", sale.SKU)
		assert.Equal(t, "COMPRADOR", sale.Buyer)
		assert.Equal(t, order.DateCreated, sale.SoldAt)
	})
}

func TestListingExposure(t *testing.T) {
	tests := []struct {
		listingType string
		want        string
	}{
		{"gold_pro", "Premium"},
		{"gold_special", "Clássico"},
		{"silver", "Clássico"},
		{"", "Clássico"},
		{"tipo_desconhecido", "Clássico"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, listingExposure(tt.listingType), "listing_type %q", tt.listingType)
	}
}

func TestLogisticTypeName(t *testing.T) {
	tests := []struct {
		logisticType string
		want         string
	}{
		{"self_service", "FLEX"},
		{"drop_off", "Correios"},
		{"xd_drop_off", "Agência"},
		{"cross_docking", "Coleta"},
		{"fulfillment", "FULL"},
		{"me2", "me2"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, logisticTypeName(tt.logisticType))
	}
}
