package meli

import (
	"github.com/shopspring/decimal"
	melidomain "github.com/vendalytics/sales-sync-api/infrastructure/integrator/meli/domain"
	"github.com/vendalytics/sales-sync-api/internal/domain"
	"github.com/vendalytics/sales-sync-api/pkg/utils"
)

const logisticFlex = "self_service"

var (
	// Abaixo deste preço unitário o frete é do comprador nos modos
	// não-FLEX, então o custo do vendedor é zerado.
	freeShippingThreshold = decimal.NewFromInt(79)

	// Subsídio pago pelo marketplace por unidade entregue via FLEX.
	flexRebatePerUnit = decimal.NewFromFloat(4.9)
)

// freightCost resolve o custo de frete cobrado do vendedor na ordem de
// preferência shipping_option → shipment → pedido. Retorna o valor já com
// sinal de despesa (negativo) e a origem usada.
func freightCost(order *melidomain.Order) (decimal.Decimal, string, bool) {
	if s := order.Shipment; s != nil {
		if s.ShippingOption.Cost != nil {
			return utils.RoundCurrencyFloat(*s.ShippingOption.Cost).Neg(), "shipping_option", true
		}
		if s.Cost != nil {
			return utils.RoundCurrencyFloat(*s.Cost).Neg(), "shipment", true
		}
	}

	if order.Shipping.Cost != nil {
		return utils.RoundCurrencyFloat(*order.Shipping.Cost).Neg(), "order", true
	}

	return decimal.Zero, "", false
}

// freightAdjustment aplica a regra de ajuste por tipo de logística.
// Zero é um override legítimo, por isso o retorno é o tri-estado
// domain.FreightOverride e não um número anulável.
func freightAdjustment(logisticType string, unitPrice decimal.Decimal, quantity int) domain.FreightOverride {
	if logisticType == "" {
		return domain.NoFreightOverride()
	}

	if logisticType == logisticFlex {
		rebate := flexRebatePerUnit.Mul(decimal.NewFromInt(int64(quantity)))
		return domain.FreightOverrideOf(utils.RoundCurrency(rebate), "FLEX")
	}

	if unitPrice.LessThan(freeShippingThreshold) {
		return domain.FreightOverrideOf(decimal.Zero, logisticTypeName(logisticType))
	}

	return domain.NoFreightOverride()
}

// logisticTypeName converte o código de logística do Mercado Livre no nome
// exibido ao usuário. Códigos desconhecidos passam como estão.
func logisticTypeName(logisticType string) string {
	switch logisticType {
	case "self_service":
		return "FLEX"
	case "drop_off":
		return "Correios"
	case "xd_drop_off":
		return "Agência"
	case "cross_docking":
		return "Coleta"
	case "fulfillment":
		return "FULL"
	}
	return logisticType
}

// listingExposure mapeia o tipo de anúncio para o tier de exposição.
// gold_pro é Premium; todo o resto (gold_special, silver, desconhecidos)
// é Clássico.
func listingExposure(listingType string) string {
	if listingType == "gold_pro" {
		return "Premium"
	}
	return "Clássico"
}
