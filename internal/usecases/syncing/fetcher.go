package syncing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vendalytics/sales-sync-api/internal/domain"
)

// Margem de segurança: nenhuma página nova é disparada com menos que isso
// de orçamento restante.
const fetchSafetyMargin = 2 * time.Second

// ReportFunc recebe o andamento {buscados, esperados} após cada página.
type ReportFunc func(fetched, expected int)

// Fetcher busca todas as páginas de uma janela com um pool deslizante de
// requisições em voo. As páginas são emitidas em ordem crescente de offset
// mas podem completar fora de ordem.
type Fetcher struct {
	exec        *Executor
	pageSize    int
	concurrency int
	maxResults  int
}

func NewFetcher(exec *Executor, pageSize, concurrency, maxResults int) *Fetcher {
	if pageSize <= 0 {
		pageSize = 50
	}
	if concurrency <= 0 {
		concurrency = 2
	}
	if maxResults <= 0 {
		maxResults = DefaultCeiling
	}
	return &Fetcher{
		exec:        exec,
		pageSize:    pageSize,
		concurrency: concurrency,
		maxResults:  maxResults,
	}
}

// FetchWindow busca os pedidos da janela até o total remoto se esgotar, o
// teto de offset ser atingido, um erro não-retryável ocorrer ou o orçamento
// chegar à margem de segurança. maxOrders > 0 limita a busca aos N pedidos
// mais recentes (fase rápida). Os pedidos já coletados são devolvidos mesmo
// quando err != nil.
func (f *Fetcher) FetchWindow(
	ctx context.Context,
	mkt Marketplace,
	acc *domain.Account,
	window Window,
	deadline time.Time,
	maxOrders int,
	report ReportFunc,
) ([]domain.RawOrder, int, error) {
	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		orders     []domain.RawOrder
		firstErr   error
		exhausted  bool
		nextOffset int
	)

	total := window.EstimatedCount

	sem := make(chan struct{}, f.concurrency)

	for {
		mu.Lock()
		stop := firstErr != nil ||
			exhausted ||
			(total > 0 && nextOffset >= total) ||
			nextOffset+f.pageSize > f.maxResults ||
			(maxOrders > 0 && nextOffset >= maxOrders) ||
			time.Until(deadline) < fetchSafetyMargin
		offset := nextOffset
		if !stop {
			nextOffset += f.pageSize
		}
		mu.Unlock()

		if stop {
			break
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			mu.Lock()
			if firstErr == nil {
				firstErr = ctx.Err()
			}
			mu.Unlock()
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			defer func() { <-sem }()

			var page *domain.OrderPage
			err := f.exec.Do(ctx, fmt.Sprintf("busca de pedidos (offset %d)", offset), func() error {
				p, searchErr := mkt.SearchOrders(ctx, acc, window.From, window.To, offset, f.pageSize)
				if searchErr != nil {
					return searchErr
				}
				page = p
				return nil
			})

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}

			if len(page.Orders) == 0 {
				exhausted = true
				return
			}

			orders = append(orders, page.Orders...)

			// O total só cresce: marketplaces com paginação por cursor
			// reportam um piso (offset + vistos), e uma página de offset
			// baixo completando por último não pode regredir o total nem
			// encerrar o laço antes da hora.
			if page.Total > total {
				total = page.Total
			}

			if report != nil {
				report(len(orders), total)
			}
		}(offset)
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()

	if maxOrders > 0 && len(orders) > maxOrders {
		orders = orders[:maxOrders]
	}

	return orders, total, firstErr
}
