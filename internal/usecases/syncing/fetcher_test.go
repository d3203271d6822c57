package syncing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendalytics/sales-sync-api/infrastructure/integrator"
	"github.com/vendalytics/sales-sync-api/internal/domain"
)

// pagedMarketplace serve um conjunto fixo de pedidos via paginação por
// offset, como os marketplaces reais.
func pagedMarketplace(totalOrders int) *stubMarketplace {
	orders := make([]domain.RawOrder, totalOrders)
	for i := range orders {
		orders[i] = stubOrder{
			id:     fmt.Sprintf("order-%04d", i),
			soldAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).Add(-time.Duration(i) * time.Hour),
		}
	}

	var mu sync.Mutex
	return &stubMarketplace{
		searchFn: func(_, _ time.Time, offset, limit int) (*domain.OrderPage, error) {
			mu.Lock()
			defer mu.Unlock()

			if offset >= len(orders) {
				return &domain.OrderPage{Total: len(orders)}, nil
			}

			end := offset + limit
			if end > len(orders) {
				end = len(orders)
			}

			return &domain.OrderPage{Orders: orders[offset:end], Total: len(orders)}, nil
		},
	}
}

func TestFetcher_FetchWindow(t *testing.T) {
	exec := NewExecutor(1, time.Millisecond, nil)
	window := Window{
		From: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	deadline := time.Now().Add(time.Minute)

	t.Run("Busca todas as páginas da janela", func(t *testing.T) {
		mkt := pagedMarketplace(125)
		fetcher := NewFetcher(exec, 50, 2, DefaultCeiling)

		orders, total, err := fetcher.FetchWindow(context.Background(), mkt, testAccount(), window, deadline, 0, nil)

		require.NoError(t, err)
		assert.Equal(t, 125, total)
		assert.Len(t, orders, 125)

		seen := make(map[string]struct{}, len(orders))
		for _, order := range orders {
			seen[order.OrderID()] = struct{}{}
		}
		assert.Len(t, seen, 125)
	})

	t.Run("Teto de pedidos da fase rápida corta a busca", func(t *testing.T) {
		mkt := pagedMarketplace(500)
		fetcher := NewFetcher(exec, 50, 2, DefaultCeiling)

		orders, _, err := fetcher.FetchWindow(context.Background(), mkt, testAccount(), window, deadline, 100, nil)

		require.NoError(t, err)
		assert.Len(t, orders, 100)
	})

	t.Run("Orçamento esgotado interrompe sem disparar páginas novas", func(t *testing.T) {
		mkt := pagedMarketplace(500)
		fetcher := NewFetcher(exec, 50, 2, DefaultCeiling)

		expired := time.Now().Add(-time.Second)
		orders, _, err := fetcher.FetchWindow(context.Background(), mkt, testAccount(), window, expired, 0, nil)

		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("Erro não-retryável devolve o parcial coletado", func(t *testing.T) {
		var mu sync.Mutex
		calls := 0
		mkt := &stubMarketplace{
			searchFn: func(_, _ time.Time, offset, limit int) (*domain.OrderPage, error) {
				mu.Lock()
				defer mu.Unlock()
				calls++
				if offset >= 100 {
					return nil, &integrator.APIError{StatusCode: 422}
				}
				page := make([]domain.RawOrder, limit)
				for i := range page {
					page[i] = stubOrder{id: fmt.Sprintf("order-%d", offset+i)}
				}
				return &domain.OrderPage{Orders: page, Total: 400}, nil
			},
		}
		fetcher := NewFetcher(exec, 50, 1, DefaultCeiling)

		orders, _, err := fetcher.FetchWindow(context.Background(), mkt, testAccount(), window, deadline, 0, nil)

		require.Error(t, err)
		assert.Len(t, orders, 100)
	})

	t.Run("Página vazia encerra mesmo com total inflado", func(t *testing.T) {
		// Total do marketplace maior que o que a janela de fato devolve
		mkt := &stubMarketplace{
			searchFn: func(_, _ time.Time, offset, limit int) (*domain.OrderPage, error) {
				if offset >= 30 {
					return &domain.OrderPage{Total: 500}, nil
				}
				page := make([]domain.RawOrder, 30-offset)
				for i := range page {
					page[i] = stubOrder{id: fmt.Sprintf("order-%d", offset+i)}
				}
				return &domain.OrderPage{Orders: page, Total: 500}, nil
			},
		}
		fetcher := NewFetcher(exec, 30, 1, DefaultCeiling)

		orders, _, err := fetcher.FetchWindow(context.Background(), mkt, testAccount(), window, deadline, 0, nil)

		require.NoError(t, err)
		assert.Len(t, orders, 30)
	})

	t.Run("Total em piso crescente não regride a estimativa da janela", func(t *testing.T) {
		// Paginação por cursor reporta só offset + vistos (+1 se há mais):
		// uma página de offset baixo completando por último não pode
		// derrubar o total e encerrar a janela pela metade.
		orders := make([]domain.RawOrder, 150)
		for i := range orders {
			orders[i] = stubOrder{id: fmt.Sprintf("order-%04d", i)}
		}

		var mu sync.Mutex
		mkt := &stubMarketplace{
			searchFn: func(_, _ time.Time, offset, limit int) (*domain.OrderPage, error) {
				mu.Lock()
				defer mu.Unlock()

				if offset >= len(orders) {
					return &domain.OrderPage{Total: len(orders)}, nil
				}

				end := offset + limit
				if end > len(orders) {
					end = len(orders)
				}

				floor := end
				if end < len(orders) {
					floor = end + 1
				}

				return &domain.OrderPage{Orders: orders[offset:end], Total: floor}, nil
			},
		}
		fetcher := NewFetcher(exec, 50, 2, DefaultCeiling)

		estimated := Window{From: window.From, To: window.To, EstimatedCount: 150}
		fetched, total, err := fetcher.FetchWindow(context.Background(), mkt, testAccount(), estimated, deadline, 0, nil)

		require.NoError(t, err)
		assert.Equal(t, 150, total)
		assert.Len(t, fetched, 150)
	})

	t.Run("Progresso é reportado a cada página", func(t *testing.T) {
		mkt := pagedMarketplace(100)
		fetcher := NewFetcher(exec, 50, 1, DefaultCeiling)

		var mu sync.Mutex
		reports := make([][2]int, 0)
		report := func(fetched, expected int) {
			mu.Lock()
			defer mu.Unlock()
			reports = append(reports, [2]int{fetched, expected})
		}

		_, _, err := fetcher.FetchWindow(context.Background(), mkt, testAccount(), window, deadline, 0, report)

		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, [2]int{100, 100}, reports[1])
	})
}
