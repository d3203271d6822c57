package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeContributionMargin(t *testing.T) {
	tests := []struct {
		name          string
		gross         float64
		fee           float64
		freight       float64
		costOfGoods   float64
		hasCost       bool
		wantMargin    string
		wantEstimated bool
	}{
		{
			name:          "Margem real quando o custo do SKU é conhecido",
			gross:         100,
			fee:           -12,
			freight:       -8,
			costOfGoods:   50,
			hasCost:       true,
			wantMargin:    "30",
			wantEstimated: false,
		},
		{
			name:          "Margem estimada (receita líquida) sem custo cadastrado",
			gross:         100,
			fee:           -12,
			freight:       -8,
			hasCost:       false,
			wantMargin:    "80",
			wantEstimated: true,
		},
		{
			name:          "Frete positivo entra somando",
			gross:         200,
			fee:           -30,
			freight:       15,
			costOfGoods:   100,
			hasCost:       true,
			wantMargin:    "85",
			wantEstimated: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			margin, estimated := ComputeContributionMargin(
				decimal.NewFromFloat(tt.gross),
				decimal.NewFromFloat(tt.fee),
				decimal.NewFromFloat(tt.freight),
				decimal.NewFromFloat(tt.costOfGoods),
				tt.hasCost,
			)

			assert.Equal(t, tt.wantMargin, margin.String())
			assert.Equal(t, tt.wantEstimated, estimated)
		})
	}
}

func TestSale_EffectiveFreight(t *testing.T) {
	sale := &Sale{FreightCost: decimal.NewFromFloat(21.9)}

	// Sem override vale o frete calculado
	assert.True(t, sale.EffectiveFreight().Equal(decimal.NewFromFloat(21.9)))

	// Override de zero é um valor legítimo, não ausência de valor
	sale.FreightOverride = FreightOverrideOf(decimal.Zero, "regra-nao-flex")
	assert.True(t, sale.EffectiveFreight().IsZero())
}

func TestSale_RecomputeMargin(t *testing.T) {
	sale := &Sale{
		Quantity:    2,
		GrossAmount: decimal.NewFromFloat(100),
		PlatformFee: decimal.NewFromFloat(-12),
		FreightCost: decimal.NewFromFloat(-8),
	}

	// Custo desconhecido: margem estimada
	sale.RecomputeMargin(decimal.Zero)
	assert.Equal(t, "80", sale.ContributionMargin.String())
	assert.True(t, sale.MarginEstimated)

	// Custo unitário 25 × quantidade 2 = 50 de CMV
	sale.RecomputeMargin(decimal.NewFromFloat(25))
	assert.Equal(t, "30", sale.ContributionMargin.String())
	assert.False(t, sale.MarginEstimated)
}
