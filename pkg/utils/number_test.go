package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "arredonda para cima no empate", input: 1.005, expected: "1.01"},
		{name: "arredonda para baixo", input: 1.004, expected: "1"},
		{name: "negativo com empate vai em direção ao zero", input: -1.005, expected: "-1"},
		{name: "negativo comum", input: -12.348, expected: "-12.35"},
		{name: "zero negativo é normalizado", input: -0.004, expected: "0"},
		{name: "zero", input: 0, expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundCurrencyFloat(tt.input)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)),
				"esperado %s, obtido %s", tt.expected, got.String())
		})
	}
}

func TestRoundCurrencyNegativeZeroSign(t *testing.T) {
	got := RoundCurrency(decimal.RequireFromString("-0.001"))
	assert.Equal(t, "0", got.String())
	assert.False(t, got.IsNegative())
}
