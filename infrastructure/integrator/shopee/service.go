package shopee

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	shopeedomain "github.com/vendalytics/sales-sync-api/infrastructure/integrator/shopee/domain"
	"github.com/vendalytics/sales-sync-api/infrastructure/integrator/shopee/shopeeclient"
	"github.com/vendalytics/sales-sync-api/internal/config"
	"github.com/vendalytics/sales-sync-api/internal/domain"
	"github.com/vendalytics/sales-sync-api/pkg/utils"
)

const (
	// A Open API limita get_order_list a intervalos de 15 dias.
	maxWindowDays = 15

	// Teto de resultados por janela antes de forçar divisão, alinhado ao
	// limite de paginação da plataforma.
	countCeiling = 10000

	listPageSize    = 100
	detailBatchSize = 50
)

// Integrator implementa o contrato de marketplace para a Shopee: listagem
// por cursor dentro de janelas de até 15 dias, detalhe em lote e
// enriquecimento por escrow.
type Integrator struct {
	cfg    *config.Config
	Client shopeeclient.Client
}

func New(cfg *config.Config, client shopeeclient.Client) *Integrator {
	return &Integrator{
		cfg:    cfg,
		Client: client,
	}
}

func (s *Integrator) Platform() domain.Platform {
	return domain.PlatformShopee
}

// MaxWindowDays expõe o limite de intervalo da API para o planejador de
// janelas pré-dividir os períodos.
func (s *Integrator) MaxWindowDays() int {
	return maxWindowDays
}

// CountOrders conta os pedidos do intervalo percorrendo a listagem de
// order_sn. A API não reporta total, então a contagem caminha o cursor
// (payload leve, só identificadores) e para no teto de divisão de janela.
func (s *Integrator) CountOrders(ctx context.Context, acc *domain.Account, from, to time.Time) (int, error) {
	count := 0
	cursor := ""

	for {
		resp, err := s.Client.GetOrderList(ctx, acc.AccessToken, acc.ExternalSellerID, from, to, listPageSize, cursor)
		if err != nil {
			return 0, err
		}

		count += len(resp.OrderList)
		if !resp.More || count >= countCeiling {
			return count, nil
		}
		cursor = resp.NextCursor
	}
}

// SearchOrders busca uma página de pedidos detalhados. O offset é convertido
// no cursor numérico da listagem. Enquanto houver mais páginas o total
// devolvido é um limite inferior (offset + página + 1), que se torna exato
// na última página; o laço de paginação do motor converge do mesmo jeito.
func (s *Integrator) SearchOrders(ctx context.Context, acc *domain.Account, from, to time.Time, offset, limit int) (*domain.OrderPage, error) {
	cursor := ""
	if offset > 0 {
		cursor = strconv.Itoa(offset)
	}

	listResp, err := s.Client.GetOrderList(ctx, acc.AccessToken, acc.ExternalSellerID, from, to, limit, cursor)
	if err != nil {
		return nil, err
	}

	page := &domain.OrderPage{
		Orders: make([]domain.RawOrder, 0, len(listResp.OrderList)),
	}

	orderSNs := make([]string, 0, len(listResp.OrderList))
	for _, entry := range listResp.OrderList {
		orderSNs = append(orderSNs, entry.OrderSN)
	}

	for start := 0; start < len(orderSNs); start += detailBatchSize {
		end := start + detailBatchSize
		if end > len(orderSNs) {
			end = len(orderSNs)
		}

		detailResp, err := s.Client.GetOrderDetail(ctx, acc.AccessToken, acc.ExternalSellerID, orderSNs[start:end])
		if err != nil {
			return nil, err
		}

		for _, order := range detailResp.OrderList {
			page.Orders = append(page.Orders, order)
		}
	}

	page.Total = offset + len(page.Orders)
	if listResp.More {
		page.Total++
	}

	return page, nil
}

// EnrichOrder anexa o detalhe financeiro (escrow) ao pedido. Falha aqui é
// não-fatal: o pedido segue sem escrow e as taxas ficam zeradas.
func (s *Integrator) EnrichOrder(ctx context.Context, acc *domain.Account, raw domain.RawOrder) error {
	order, ok := raw.(*shopeedomain.Order)
	if !ok {
		return errors.Errorf("pedido de tipo inesperado %T", raw)
	}

	escrow, err := s.Client.GetEscrowDetail(ctx, acc.AccessToken, acc.ExternalSellerID, order.OrderSN)
	if err != nil {
		return err
	}

	order.Escrow = escrow
	return nil
}

// Transform converte o pedido detalhado em um registro de venda.
func (s *Integrator) Transform(acc *domain.Account, raw domain.RawOrder) (*domain.Sale, error) {
	order, ok := raw.(*shopeedomain.Order)
	if !ok {
		return nil, errors.Errorf("pedido de tipo inesperado %T", raw)
	}

	quantity := order.Quantity()
	gross := utils.RoundCurrencyFloat(order.TotalAmount)
	unitPrice := utils.RoundCurrency(gross.Div(decimal.NewFromInt(int64(quantity))))

	sale := &domain.Sale{
		OrderID:     order.OrderSN,
		Platform:    domain.PlatformShopee,
		UserID:      acc.UserID,
		AccountID:   acc.ID,
		Status:      order.OrderStatus,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		GrossAmount: gross,
		Buyer:       utils.TruncateString(order.BuyerUsername, 255),
		RawData:     order.Raw,
		SoldAt:      order.SoldAt(),
		SyncedAt:    time.Now(),
	}
	if sale.Buyer == "" {
		sale.Buyer = "Comprador"
	}

	if len(order.ItemList) > 0 {
		first := order.ItemList[0]
		sale.Title = utils.TruncateString(first.ItemName, 500)
		sale.SKU = utils.TruncateString(first.SKU(), 255)
	}
	if sale.Title == "" {
		sale.Title = "Pedido"
	}

	if len(order.PackageList) > 0 {
		pkg := order.PackageList[0]
		sale.ShipmentID = utils.TruncateString(pkg.TrackingNumber, 255)
		sale.ShippingStatus = utils.TruncateString(pkg.LogisticsStatus, 100)
		sale.LogisticType = utils.TruncateString(pkg.ShippingCarrier, 100)
	}
	if sale.LogisticType == "" {
		sale.LogisticType = utils.TruncateString(order.ShippingCarrier, 100)
	}

	if city := order.RecipientAddress.City; city != "" {
		sale.City = &city
	}
	if state := order.RecipientAddress.State; state != "" {
		sale.State = &state
	}

	if order.Escrow != nil {
		income := order.Escrow.OrderIncome

		// Taxa da plataforma armazenada negativa por convenção
		sale.PlatformFee = utils.RoundCurrencyFloat(income.CommissionFee + income.ServiceFee).Neg()
		sale.FreightCost = netFreight(income)
		sale.IsAd = income.AMSCommissionFee > 0
	}

	// Margem sem custo de SKU: o orquestrador recalcula com o CMV depois
	// da consulta em lote dos custos unitários.
	sale.RecomputeMargin(decimal.Zero)

	return sale, nil
}

// netFreight calcula o frete líquido do escrow: pago pelo comprador mais
// subsídio, menos custo real e frete reverso. Positivo é receita de frete,
// negativo é custo.
func netFreight(income shopeedomain.OrderIncome) decimal.Decimal {
	rebate := income.ShopeeShippingRebate

	// Subsídio implícito: há custo real de frete, nenhum rebate informado
	// e o custo líquido é praticamente zero — a plataforma subsidiou.
	if income.ActualShippingFee > 0 && rebate == 0 {
		implicitCost := income.ActualShippingFee - income.BuyerPaidShippingFee
		if implicitCost < 0.01 {
			rebate = income.ActualShippingFee - income.BuyerPaidShippingFee
		}
	}

	net := (income.BuyerPaidShippingFee + rebate) - (income.ActualShippingFee + income.ReverseShippingFee)
	return utils.RoundCurrencyFloat(net)
}

// RefreshToken renova o par de tokens quando o access token está perto de
// expirar. A Shopee devolve expire_in em segundos; desconta-se uma margem
// de cinco minutos para evitar corrida com o relógio da plataforma.
func (s *Integrator) RefreshToken(ctx context.Context, acc *domain.Account) error {
	if !acc.TokenNearExpiry(10 * time.Minute) {
		return nil
	}

	tokenResp, err := s.Client.RefreshToken(ctx, acc.RefreshToken, acc.ExternalSellerID)
	if err != nil {
		return err
	}

	acc.AccessToken = tokenResp.AccessToken
	if tokenResp.RefreshToken != "" {
		acc.RefreshToken = tokenResp.RefreshToken
	}
	acc.TokenExpiresAt = time.Now().Add(time.Duration(tokenResp.ExpireIn-300) * time.Second)

	return nil
}
