package utils

import "github.com/shopspring/decimal"

// RoundCurrency arredonda um valor monetário para duas casas decimais
// (half-up, empates vão em direção ao infinito positivo, como o SQL do
// relatório original). Um resultado de -0 é normalizado para 0.
func RoundCurrency(v decimal.Decimal) decimal.Decimal {
	half := decimal.New(5, -1)
	r := v.Shift(2).Add(half).Floor().Shift(-2)

	if r.IsZero() {
		return decimal.Zero
	}

	return r
}

// RoundCurrencyFloat converte um float vindo de payloads JSON e arredonda
// com as mesmas regras de RoundCurrency.
func RoundCurrencyFloat(v float64) decimal.Decimal {
	return RoundCurrency(decimal.NewFromFloat(v))
}
