package repository

import (
	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/vendalytics/sales-sync-api/infrastructure/database/postgres"
)

const skusTable = "skus"

type SKURepository interface {
	UnitCostsByUser(userID int, codes []string) (map[string]decimal.Decimal, error)
}

type skuRepository struct {
	conn *postgres.Connection
}

func NewSKURepository(conn *postgres.Connection) SKURepository {
	return &skuRepository{
		conn: conn,
	}
}

// UnitCostsByUser busca em lote os custos unitários cadastrados para os
// códigos de SKU informados. Códigos sem cadastro simplesmente não vêm no
// mapa; a venda fica com margem estimada.
func (r *skuRepository) UnitCostsByUser(userID int, codes []string) (map[string]decimal.Decimal, error) {
	costs := make(map[string]decimal.Decimal, len(codes))
	if len(codes) == 0 {
		return costs, nil
	}

	querySQL, args, err := squirrel.
		Select("code", "unit_cost").
		From(skusTable).
		Where(squirrel.Eq{"user_id": userID, "code": codes}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(querySQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			code string
			cost decimal.Decimal
		)
		if err := rows.Scan(&code, &cost); err != nil {
			return nil, err
		}
		costs[code] = cost
	}

	return costs, rows.Err()
}
