package syncing

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vendalytics/sales-sync-api/infrastructure/repository"
	"github.com/vendalytics/sales-sync-api/internal/domain"
)

// PersistResult resume o destino de um lote de vendas.
type PersistResult struct {
	Saved      int
	Created    int
	Updated    int
	Collisions int
	Failures   int
}

// Persister remove duplicatas dentro do lote, particiona contra o que já
// existe no banco e persiste em sub-lotes limitados. A idempotência vem da
// chave natural (platform, order_id): criar ignora conflitos, atualizar é
// upsert em place.
type Persister struct {
	saleRepo  repository.SaleRepository
	batchSize int
}

func NewPersister(saleRepo repository.SaleRepository, batchSize int) *Persister {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Persister{
		saleRepo:  saleRepo,
		batchSize: batchSize,
	}
}

// Persist grava o lote. Falha de um sub-lote é contada e reportada como
// aviso, nunca aborta os sub-lotes restantes. report recebe o andamento
// {processados, total} após cada sub-lote.
func (p *Persister) Persist(ctx context.Context, platform domain.Platform, sales []*domain.Sale, report ReportFunc) (*PersistResult, error) {
	result := &PersistResult{}
	if len(sales) == 0 {
		return result, nil
	}

	deduped := dedupe(sales, result)

	orderIDs := make([]string, 0, len(deduped))
	for _, sale := range deduped {
		orderIDs = append(orderIDs, sale.OrderID)
	}

	existing, err := p.saleRepo.ExistingOrderIDs(platform, orderIDs)
	if err != nil {
		return result, err
	}

	toCreate := make([]*domain.Sale, 0, len(deduped))
	toUpdate := make([]*domain.Sale, 0)
	for _, sale := range deduped {
		if _, ok := existing[sale.OrderID]; ok {
			toUpdate = append(toUpdate, sale)
		} else {
			toCreate = append(toCreate, sale)
		}
	}

	total := len(deduped)
	processed := 0

	for _, batch := range chunk(toCreate, p.batchSize) {
		created, err := p.saleRepo.InsertSkipDuplicates(batch)
		if err != nil {
			logrus.WithError(err).WithField("batch_size", len(batch)).
				Warn("Falha ao inserir sub-lote de vendas")
			result.Failures += len(batch)
		} else {
			result.Created += created
			result.Saved += len(batch)
		}

		processed += len(batch)
		if report != nil {
			report(processed, total)
		}
	}

	for _, batch := range chunk(toUpdate, p.batchSize) {
		if err := p.saleRepo.UpdateBatch(ctx, batch); err != nil {
			logrus.WithError(err).WithField("batch_size", len(batch)).
				Warn("Falha ao atualizar sub-lote de vendas")
			result.Failures += len(batch)
		} else {
			result.Updated += len(batch)
			result.Saved += len(batch)
		}

		processed += len(batch)
		if report != nil {
			report(processed, total)
		}
	}

	return result, nil
}

// dedupe remove duplicatas por order_id dentro do próprio lote (páginas
// sobrepostas podem devolver o mesmo pedido duas vezes), mantendo a
// primeira ocorrência e contando as colisões.
func dedupe(sales []*domain.Sale, result *PersistResult) []*domain.Sale {
	seen := make(map[string]struct{}, len(sales))
	deduped := make([]*domain.Sale, 0, len(sales))

	for _, sale := range sales {
		if _, ok := seen[sale.OrderID]; ok {
			result.Collisions++
			continue
		}
		seen[sale.OrderID] = struct{}{}
		deduped = append(deduped, sale)
	}

	if result.Collisions > 0 {
		logrus.WithField("collisions", result.Collisions).
			Debug("Duplicatas removidas dentro do lote")
	}

	return deduped
}

func chunk(sales []*domain.Sale, size int) [][]*domain.Sale {
	if len(sales) == 0 {
		return nil
	}

	chunks := make([][]*domain.Sale, 0, len(sales)/size+1)
	for start := 0; start < len(sales); start += size {
		end := start + size
		if end > len(sales) {
			end = len(sales)
		}
		chunks = append(chunks, sales[start:end])
	}

	return chunks
}
