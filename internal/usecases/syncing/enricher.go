package syncing

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vendalytics/sales-sync-api/internal/domain"
)

// Enricher busca os sub-recursos de cada pedido (envio, escrow) em lotes
// pequenos e concorrentes, com limite independente do pool de páginas: o
// padrão de acesso é outro e o rate limiter do marketplace também.
type Enricher struct {
	exec      *Executor
	batchSize int
}

func NewEnricher(exec *Executor, batchSize int) *Enricher {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Enricher{
		exec:      exec,
		batchSize: batchSize,
	}
}

// Enrich anexa sub-recursos aos pedidos, lote a lote. Falha individual é
// não-fatal: o pedido segue com o que tiver (o integrador preenche o que
// faltar com vazio) e o lote continua. Devolve o número de falhas.
func (e *Enricher) Enrich(ctx context.Context, mkt Marketplace, acc *domain.Account, orders []domain.RawOrder) int {
	failures := 0

	for start := 0; start < len(orders); start += e.batchSize {
		if ctx.Err() != nil {
			break
		}

		end := start + e.batchSize
		if end > len(orders) {
			end = len(orders)
		}

		var (
			wg sync.WaitGroup
			mu sync.Mutex
		)

		for _, order := range orders[start:end] {
			wg.Add(1)
			go func(order domain.RawOrder) {
				defer wg.Done()

				err := e.exec.Do(ctx, "enriquecimento de pedido "+order.OrderID(), func() error {
					return mkt.EnrichOrder(ctx, acc, order)
				})
				if err != nil {
					logrus.WithError(err).WithFields(logrus.Fields{
						"account_id": acc.ID,
						"order_id":   order.OrderID(),
					}).Warn("Falha ao enriquecer pedido, seguindo com dados parciais")

					mu.Lock()
					failures++
					mu.Unlock()
				}
			}(order)
		}

		wg.Wait()
	}

	return failures
}
