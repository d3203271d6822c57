package meli

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	melidomain "github.com/vendalytics/sales-sync-api/infrastructure/integrator/meli/domain"
	"github.com/vendalytics/sales-sync-api/infrastructure/integrator/meli/meliclient"
	"github.com/vendalytics/sales-sync-api/internal/config"
	"github.com/vendalytics/sales-sync-api/internal/domain"
	"github.com/vendalytics/sales-sync-api/pkg/utils"
)

// Integrator implementa o contrato de marketplace do motor de sincronização
// para o Mercado Livre: busca paginada por offset, enriquecimento por envio
// e transformação em registro de venda normalizado.
type Integrator struct {
	cfg    *config.Config
	Client meliclient.Client
}

func New(cfg *config.Config, client meliclient.Client) *Integrator {
	return &Integrator{
		cfg:    cfg,
		Client: client,
	}
}

func (s *Integrator) Platform() domain.Platform {
	return domain.PlatformMeli
}

// CountOrders sonda o total de pedidos no intervalo com uma consulta de um
// resultado só. Usado pelo planejador de janelas.
func (s *Integrator) CountOrders(ctx context.Context, acc *domain.Account, from, to time.Time) (int, error) {
	resp, err := s.Client.SearchOrders(ctx, acc.AccessToken, acc.ExternalSellerID, from, to, 0, 1)
	if err != nil {
		return 0, err
	}

	return resp.Paging.Total, nil
}

func (s *Integrator) SearchOrders(ctx context.Context, acc *domain.Account, from, to time.Time, offset, limit int) (*domain.OrderPage, error) {
	resp, err := s.Client.SearchOrders(ctx, acc.AccessToken, acc.ExternalSellerID, from, to, offset, limit)
	if err != nil {
		return nil, err
	}

	page := &domain.OrderPage{
		Orders: make([]domain.RawOrder, 0, len(resp.Results)),
		Total:  resp.Paging.Total,
	}
	for _, order := range resp.Results {
		page.Orders = append(page.Orders, order)
	}

	return page, nil
}

// EnrichOrder busca o envio do pedido. Falha aqui é não-fatal para o lote:
// o chamador segue com o pedido sem envio (frete cai para o fallback do
// nível do pedido).
func (s *Integrator) EnrichOrder(ctx context.Context, acc *domain.Account, raw domain.RawOrder) error {
	order, ok := raw.(*melidomain.Order)
	if !ok {
		return errors.Errorf("pedido de tipo inesperado %T", raw)
	}

	if order.Shipping.ID == 0 {
		return nil
	}

	shipment, err := s.Client.GetShipment(ctx, acc.AccessToken, order.Shipping.ID)
	if err != nil {
		return err
	}

	order.Shipment = shipment
	return nil
}

// Transform converte o pedido enriquecido em um registro de venda. Função
// pura: não toca rede nem banco.
func (s *Integrator) Transform(acc *domain.Account, raw domain.RawOrder) (*domain.Sale, error) {
	order, ok := raw.(*melidomain.Order)
	if !ok {
		return nil, errors.Errorf("pedido de tipo inesperado %T", raw)
	}

	quantity := order.Quantity()
	gross := utils.RoundCurrencyFloat(order.TotalAmount)
	unitPrice := utils.RoundCurrency(gross.Div(decimal.NewFromInt(int64(quantity))))

	// Taxa da plataforma armazenada negativa por convenção
	fee := decimal.Zero
	for _, item := range order.OrderItems {
		fee = fee.Add(decimal.NewFromFloat(item.SaleFee).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	fee = utils.RoundCurrency(fee).Neg()

	freight, _, _ := freightCost(order)

	logisticType := ""
	if order.Shipment != nil && order.Shipment.LogisticType != "" {
		logisticType = order.Shipment.LogisticType
	} else if order.Shipping.Mode != "" {
		logisticType = order.Shipping.Mode
	}

	override := freightAdjustment(logisticType, unitPrice, quantity)

	sale := &domain.Sale{
		OrderID:         order.OrderID(),
		Platform:        domain.PlatformMeli,
		UserID:          acc.UserID,
		AccountID:       acc.ID,
		Status:          order.Status,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		GrossAmount:     gross,
		PlatformFee:     fee,
		FreightCost:     freight,
		FreightOverride: override,
		Buyer:           order.Buyer.Nickname,
		LogisticType:    logisticTypeName(logisticType),
		Tags:            order.Tags,
		InternalTags:    order.InternalTags,
		RawData:         order.Raw,
		SoldAt:          order.DateCreated,
		SyncedAt:        time.Now(),
	}

	if len(order.OrderItems) > 0 {
		first := order.OrderItems[0]
		sale.Title = first.Item.Title
		sale.SKU = first.Item.SellerSKU
		sale.ListingExposure = listingExposure(first.ListingTypeID)
	} else {
		sale.ListingExposure = listingExposure("")
	}

	for _, tag := range order.InternalTags {
		if tag == "advertising" {
			sale.IsAd = true
			break
		}
	}

	if shipment := order.Shipment; shipment != nil {
		sale.ShippingStatus = shipment.Status
		if shipment.ID != 0 {
			sale.ShipmentID = strconv.FormatInt(shipment.ID, 10)
		}
		if city := shipment.ReceiverAddress.City.Name; city != "" {
			sale.City = &city
		}
		if state := shipment.ReceiverAddress.State.Name; state != "" {
			sale.State = &state
		}
	}

	// Margem sem custo de SKU: o orquestrador recalcula com o CMV depois
	// da consulta em lote dos custos unitários.
	sale.RecomputeMargin(decimal.Zero)

	return sale, nil
}

// RefreshToken renova o par de tokens da conta quando o access token está
// perto de expirar. Atualiza a conta em memória; a persistência é do
// chamador. Erro 400/401 do fluxo OAuth sinaliza refresh token inválido.
func (s *Integrator) RefreshToken(ctx context.Context, acc *domain.Account) error {
	if !acc.TokenNearExpiry(10 * time.Minute) {
		return nil
	}

	tokenResp, err := s.Client.RefreshToken(ctx, acc.RefreshToken)
	if err != nil {
		return err
	}

	acc.AccessToken = tokenResp.AccessToken
	if tokenResp.RefreshToken != "" {
		acc.RefreshToken = tokenResp.RefreshToken
	}
	acc.TokenExpiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return nil
}
