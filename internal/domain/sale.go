package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale é um pedido persistido. A chave natural é (platform, order_id):
// re-sincronizar o mesmo pedido atualiza o registro existente, nunca duplica.
type Sale struct {
	ID                 int64           `json:"id"`
	OrderID            string          `json:"order_id"`
	Platform           Platform        `json:"platform"`
	UserID             int             `json:"user_id"`
	AccountID          string          `json:"account_id"`
	Status             string          `json:"status"`
	Title              string          `json:"title"`
	SKU                string          `json:"sku"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	GrossAmount        decimal.Decimal `json:"gross_amount"`
	PlatformFee        decimal.Decimal `json:"platform_fee"` // negativo por convenção
	FreightCost        decimal.Decimal `json:"freight_cost"`
	FreightOverride    FreightOverride `json:"freight_override"`
	CostOfGoods        decimal.Decimal `json:"cost_of_goods"`
	ContributionMargin decimal.Decimal `json:"contribution_margin"`
	MarginEstimated    bool            `json:"margin_estimated"`
	Buyer              string          `json:"buyer"`
	LogisticType       string          `json:"logistic_type"`
	ShippingStatus     string          `json:"shipping_status"`
	ShipmentID         string          `json:"shipment_id"`
	ListingExposure    string          `json:"listing_exposure"`
	IsAd               bool            `json:"is_ad"`
	City               *string         `json:"city"`
	State              *string         `json:"state"`
	Tags               []string        `json:"tags"`
	InternalTags       []string        `json:"internal_tags"`
	RawData            []byte          `json:"-"`
	SoldAt             time.Time       `json:"sold_at"`
	SyncedAt           time.Time       `json:"synced_at"`
}

// FreightOverride é o ajuste de frete aplicado pela regra de logística da
// plataforma. Zero é um override legítimo ("zera o frete"), então ausência
// de override é representada por Valid=false e não por valor zero/nulo.
type FreightOverride struct {
	Valid  bool            `json:"valid"`
	Value  decimal.Decimal `json:"value"`
	Source string          `json:"source,omitempty"`
}

// NoFreightOverride é a ausência de ajuste: vale o frete calculado.
func NoFreightOverride() FreightOverride {
	return FreightOverride{}
}

func FreightOverrideOf(value decimal.Decimal, source string) FreightOverride {
	return FreightOverride{Valid: true, Value: value, Source: source}
}

// EffectiveFreight retorna o frete que entra na margem: o override quando
// presente, senão o custo calculado.
func (s *Sale) EffectiveFreight() decimal.Decimal {
	if s.FreightOverride.Valid {
		return s.FreightOverride.Value
	}
	return s.FreightCost
}

// ComputeContributionMargin calcula a margem de contribuição:
// bruto + taxa (negativa) + frete − custo da mercadoria. Quando o custo
// unitário do SKU é desconhecido a margem é a receita líquida, marcada
// como estimada.
func ComputeContributionMargin(gross, fee, freight, costOfGoods decimal.Decimal, hasCost bool) (margin decimal.Decimal, estimated bool) {
	margin = gross.Add(fee).Add(freight)
	if hasCost {
		return margin.Sub(costOfGoods), false
	}
	return margin, true
}

// RecomputeMargin reaplica o cálculo de margem ao registro, usando o custo
// unitário informado (custo > 0 torna a margem real).
func (s *Sale) RecomputeMargin(unitCost decimal.Decimal) {
	hasCost := unitCost.IsPositive()
	if hasCost {
		s.CostOfGoods = unitCost.Mul(decimal.NewFromInt(int64(s.Quantity)))
	}

	s.ContributionMargin, s.MarginEstimated = ComputeContributionMargin(
		s.GrossAmount, s.PlatformFee, s.EffectiveFreight(), s.CostOfGoods, hasCost,
	)
}
