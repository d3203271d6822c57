package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SKU guarda o custo unitário cadastrado pelo usuário, usado para
// transformar margem estimada em margem real.
type SKU struct {
	ID        int64           `json:"id"`
	UserID    int             `json:"user_id"`
	Code      string          `json:"code"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Type      string          `json:"type"`
	UpdatedAt time.Time       `json:"updated_at"`
}
