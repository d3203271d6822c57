package syncing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vendalytics/sales-sync-api/infrastructure/integrator"
	"github.com/vendalytics/sales-sync-api/internal/domain"
	"github.com/vendalytics/sales-sync-api/internal/usecases/syncing/mocks"
	"go.uber.org/mock/gomock"
)

func TestEnricher_Enrich(t *testing.T) {
	exec := NewExecutor(1, time.Millisecond, nil)

	orders := []domain.RawOrder{
		stubOrder{id: "order-1"},
		stubOrder{id: "order-2"},
		stubOrder{id: "order-3"},
	}

	t.Run("Enriquece todos os pedidos do lote", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mkt := mocks.NewMockMarketplace(ctrl)
		mkt.EXPECT().EnrichOrder(gomock.Any(), gomock.Any(), gomock.Any()).Times(3).Return(nil)

		failures := NewEnricher(exec, 10).Enrich(context.Background(), mkt, testAccount(), orders)

		assert.Zero(t, failures)
	})

	t.Run("Falha individual conta mas não derruba o lote", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mkt := mocks.NewMockMarketplace(ctrl)

		mkt.EXPECT().EnrichOrder(gomock.Any(), gomock.Any(), gomock.Any()).Times(3).
			DoAndReturn(func(_ context.Context, _ *domain.Account, order domain.RawOrder) error {
				if order.OrderID() == "order-2" {
					return &integrator.APIError{StatusCode: 404}
				}
				return nil
			})

		failures := NewEnricher(exec, 10).Enrich(context.Background(), mkt, testAccount(), orders)

		assert.Equal(t, 1, failures)
	})

	t.Run("Lote vazio não chama o marketplace", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mkt := mocks.NewMockMarketplace(ctrl)

		failures := NewEnricher(exec, 10).Enrich(context.Background(), mkt, testAccount(), nil)

		assert.Zero(t, failures)
	})

	t.Run("Contexto cancelado interrompe entre lotes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mkt := mocks.NewMockMarketplace(ctrl)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		failures := NewEnricher(exec, 10).Enrich(ctx, mkt, testAccount(), orders)

		assert.Zero(t, failures)
	})
}
