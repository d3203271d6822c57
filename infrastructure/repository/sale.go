package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vendalytics/sales-sync-api/infrastructure/database/postgres"
	"github.com/vendalytics/sales-sync-api/internal/domain"
)

const salesTable = "sales"

type SaleRepository interface {
	ExistingOrderIDs(platform domain.Platform, orderIDs []string) (map[string]struct{}, error)
	InsertSkipDuplicates(sales []*domain.Sale) (int, error)
	UpdateBatch(ctx context.Context, sales []*domain.Sale) error
	OldestSaleDate(accountID string) (*time.Time, error)
	CountByAccount(accountID string) (int, error)
}

type saleRepository struct {
	conn *postgres.Connection
}

func NewSaleRepository(conn *postgres.Connection) SaleRepository {
	return &saleRepository{
		conn: conn,
	}
}

// ExistingOrderIDs faz a consulta de existência em lote usada para
// particionar um lote de vendas em "criar" e "atualizar".
func (r *saleRepository) ExistingOrderIDs(platform domain.Platform, orderIDs []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(orderIDs))
	if len(orderIDs) == 0 {
		return existing, nil
	}

	querySQL, args, err := squirrel.
		Select("order_id").
		From(salesTable).
		Where(squirrel.Eq{"platform": platform, "order_id": orderIDs}).
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
		var orderID string
		if err := rows.Scan(&orderID); err != nil {
			return nil, err
		}
		existing[orderID] = struct{}{}
	}

	return existing, rows.Err()
}

// InsertSkipDuplicates insere as vendas em lote, ignorando em silêncio as
// que já existem pela chave natural (platform, order_id). Isso protege
// contra sincronizações concorrentes da mesma conta.
func (r *saleRepository) InsertSkipDuplicates(sales []*domain.Sale) (int, error) {
	if len(sales) == 0 {
		return 0, nil
	}

	builder := squirrel.
		Insert(salesTable).
		Columns(
			"order_id", "platform", "user_id", "account_id", "status",
			"title", "sku", "quantity", "unit_price", "gross_amount",
			"platform_fee", "freight_cost", "freight_override", "freight_override_source",
			"cost_of_goods", "contribution_margin", "margin_estimated",
			"buyer", "logistic_type", "shipping_status", "shipment_id",
			"listing_exposure", "is_ad", "city", "state",
			"tags", "internal_tags", "raw_data", "sold_at", "synced_at",
		).
		Suffix("ON CONFLICT (platform, order_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	for _, sale := range sales {
		overrideValue, overrideSource := freightOverrideColumns(sale.FreightOverride)

		builder = builder.Values(
			sale.OrderID, sale.Platform, sale.UserID, sale.AccountID, sale.Status,
			sale.Title, sale.SKU, sale.Quantity, sale.UnitPrice, sale.GrossAmount,
			sale.PlatformFee, sale.FreightCost, overrideValue, overrideSource,
			sale.CostOfGoods, sale.ContributionMargin, sale.MarginEstimated,
			sale.Buyer, sale.LogisticType, sale.ShippingStatus, sale.ShipmentID,
			sale.ListingExposure, sale.IsAd, sale.City, sale.State,
			pq.Array(sale.Tags), pq.Array(sale.InternalTags), rawData(sale), sale.SoldAt, sale.SyncedAt,
		)
	}

	insertSQL, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	result, err := r.conn.Exec(insertSQL, args...)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return len(sales), nil
	}

	return int(affected), nil
}

// UpdateBatch atualiza os campos mutáveis das vendas em uma transação por
// sub-lote: um registro ruim derruba só a própria transação, não os
// sub-lotes vizinhos.
func (r *saleRepository) UpdateBatch(ctx context.Context, sales []*domain.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, sale := range sales {
			overrideValue, overrideSource := freightOverrideColumns(sale.FreightOverride)

			updateSQL, args, err := squirrel.
				Update(salesTable).
				Set("status", sale.Status).
				Set("title", sale.Title).
				Set("sku", sale.SKU).
				Set("quantity", sale.Quantity).
				Set("unit_price", sale.UnitPrice).
				Set("gross_amount", sale.GrossAmount).
				Set("platform_fee", sale.PlatformFee).
				Set("freight_cost", sale.FreightCost).
				Set("freight_override", overrideValue).
				Set("freight_override_source", overrideSource).
				Set("cost_of_goods", sale.CostOfGoods).
				Set("contribution_margin", sale.ContributionMargin).
				Set("margin_estimated", sale.MarginEstimated).
				Set("buyer", sale.Buyer).
				Set("logistic_type", sale.LogisticType).
				Set("shipping_status", sale.ShippingStatus).
				Set("shipment_id", sale.ShipmentID).
				Set("listing_exposure", sale.ListingExposure).
				Set("is_ad", sale.IsAd).
				Set("city", sale.City).
				Set("state", sale.State).
				Set("tags", pq.Array(sale.Tags)).
				Set("internal_tags", pq.Array(sale.InternalTags)).
				Set("raw_data", rawData(sale)).
				Set("synced_at", sale.SyncedAt).
				Where(squirrel.Eq{"platform": sale.Platform, "order_id": sale.OrderID}).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return err
			}

			if _, err := tx.Exec(updateSQL, args...); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"order_id": sale.OrderID,
					"platform": sale.Platform,
				}).Error("Falha ao atualizar venda")
				return err
			}
		}

		return nil
	})
}

// OldestSaleDate devolve o checkpoint implícito da conta: a data da venda
// mais antiga já persistida. Nil quando a conta ainda não tem vendas.
func (r *saleRepository) OldestSaleDate(accountID string) (*time.Time, error) {
	querySQL, args, err := squirrel.
		Select("MIN(sold_at)").
		From(salesTable).
		Where(squirrel.Eq{"account_id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var oldest sql.NullTime
	if err := r.conn.QueryRow(querySQL, args...).Scan(&oldest); err != nil {
		return nil, err
	}

	if !oldest.Valid {
		return nil, nil
	}

	return &oldest.Time, nil
}

func (r *saleRepository) CountByAccount(accountID string) (int, error) {
	querySQL, args, err := squirrel.
		Select("COUNT(*)").
		From(salesTable).
		Where(squirrel.Eq{"account_id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	count := 0
	if err := r.conn.QueryRow(querySQL, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// freightOverrideColumns mapeia o tri-estado do override para as colunas:
// NULL significa "sem override"; zero é um override válido.
func freightOverrideColumns(override domain.FreightOverride) (*decimal.Decimal, *string) {
	if !override.Valid {
		return nil, nil
	}

	value := override.Value
	source := override.Source
	return &value, &source
}

func rawData(sale *domain.Sale) []byte {
	if len(sale.RawData) == 0 {
		return []byte("{}")
	}
	return sale.RawData
}
