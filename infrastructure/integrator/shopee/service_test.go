package shopee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	shopeedomain "github.com/vendalytics/sales-sync-api/infrastructure/integrator/shopee/domain"
	"github.com/vendalytics/sales-sync-api/internal/config"
	"github.com/vendalytics/sales-sync-api/internal/domain"
)

func testAccount() *domain.Account {
	return &domain.Account{
		ID:               "ACC002",
		UserID:           42,
		Platform:         domain.PlatformShopee,
		ExternalSellerID: "778899",
		Nickname:         "LOJA SP",
	}
}

func testOrder() *shopeedomain.Order {
	return &shopeedomain.Order{
		OrderSN:       "240310ABCDEF",
		OrderStatus:   "COMPLETED",
		CreateTime:    time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC).Unix(),
		TotalAmount:   200,
		BuyerUsername: "comprador_sp",
		ItemList: []shopeedomain.OrderItem{
			{
				ItemName:               "Produto Shopee",
				ItemSKU:                "SKU-SP-1",
				ModelQuantityPurchased: 2,
				ModelOriginalPrice:     100,
			},
		},
		PackageList: []shopeedomain.Package{
			{
				TrackingNumber:  "BR123456789",
				ShippingCarrier: "Shopee Xpress",
				LogisticsStatus: "LOGISTICS_DELIVERY_DONE",
			},
		},
		RecipientAddress: shopeedomain.RecipientAddress{City: "São Paulo", State: "SP"},
	}
}

func TestIntegrator_Transform(t *testing.T) {
	integrator := New(&config.Config{}, nil)
	acc := testAccount()

	t.Run("Taxas do escrow entram negativas e frete líquido com sinal", func(t *testing.T) {
		order := testOrder()
		order.Escrow = &shopeedomain.EscrowDetail{
			OrderSN: order.OrderSN,
			OrderIncome: shopeedomain.OrderIncome{
				CommissionFee:        22,
				ServiceFee:           8,
				ActualShippingFee:    18,
				BuyerPaidShippingFee: 12,
				ShopeeShippingRebate: 3,
			},
		}

		sale, err := integrator.Transform(acc, order)
		require.NoError(t, err)

		assert.Equal(t, "-30", sale.PlatformFee.String())
		// (12 + 3) - 18 = -3: custo líquido de frete
		assert.Equal(t, "-3", sale.FreightCost.String())
		// 200 - 30 - 3 = 167, estimada (sem CMV)
		assert.Equal(t, "167", sale.ContributionMargin.String())
		assert.True(t, sale.MarginEstimated)
	})

	t.Run("Subsídio implícito quando o custo líquido é praticamente zero", func(t *testing.T) {
		order := testOrder()
		order.Escrow = &shopeedomain.EscrowDetail{
			OrderIncome: shopeedomain.OrderIncome{
				ActualShippingFee:    15,
				BuyerPaidShippingFee: 15,
			},
		}

		sale, err := integrator.Transform(acc, order)
		require.NoError(t, err)

		// Rebate criado automaticamente zera o frete
		assert.True(t, sale.FreightCost.IsZero())
	})

	t.Run("Pedido sem escrow segue com taxas zeradas", func(t *testing.T) {
		order := testOrder()

		sale, err := integrator.Transform(acc, order)
		require.NoError(t, err)

		assert.True(t, sale.PlatformFee.IsZero())
		assert.True(t, sale.FreightCost.IsZero())
		assert.Equal(t, "200", sale.ContributionMargin.String())
	})

	t.Run("Taxa de ads marca a venda como anúncio", func(t *testing.T) {
		order := testOrder()
		order.Escrow = &shopeedomain.EscrowDetail{
			OrderIncome: shopeedomain.OrderIncome{AMSCommissionFee: 1.5},
		}

		sale, err := integrator.Transform(acc, order)
		require.NoError(t, err)

		assert.True(t, sale.IsAd)
	})

	t.Run("Campos descritivos e identidade", func(t *testing.T) {
		order := testOrder()

		sale, err := integrator.Transform(acc, order)
		require.NoError(t, err)

		assert.Equal(t, "240310ABCDEF", sale.OrderID)
		assert.Equal(t, domain.PlatformShopee, sale.Platform)
		assert.Equal(t, 2, sale.Quantity)
		assert.Equal(t, "100", sale.UnitPrice.String())
		assert.Equal(t, "Produto Shopee", sale.Title)
		assert.Equal(t, "SKU-SP-1", sale.SKU)
		assert.Equal(t, "comprador_sp", sale.Buyer)
		assert.Equal(t, "BR123456789", sale.ShipmentID)
		assert.Equal(t, "Shopee Xpress", sale.LogisticType)
		require.NotNil(t, sale.City)
		assert.Equal(t, "São Paulo", *sale.City)
	})
}

func TestOrderItem_SKU(t *testing.T) {
	tests := []struct {
		name string
		item shopeedomain.OrderItem
		want string
	}{
		{"item_sku tem prioridade", shopeedomain.OrderItem{ItemSKU: "A", ModelSKU: "B", VariationSKU: "C"}, "A"},
		{"model_sku como fallback", shopeedomain.OrderItem{ModelSKU: "B", VariationSKU: "C"}, "B"},
		{"variation_sku por último", shopeedomain.OrderItem{VariationSKU: "C"}, "C"},
		{"sem nenhum", shopeedomain.OrderItem{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.SKU())
		})
	}
}
