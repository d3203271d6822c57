package syncing

import (
	"context"
	"time"

	"github.com/vendalytics/sales-sync-api/internal/domain"
)

//go:generate mockgen -source=marketplace.go -destination=mocks/marketplace.go -package=mocks

// Marketplace é o contrato que cada integrador (Mercado Livre, Shopee)
// implementa para o motor de sincronização. O motor não conhece paginação
// por cursor, assinatura de requisição nem formato de payload: isso fica
// atrás desta interface.
type Marketplace interface {
	Platform() domain.Platform

	// CountOrders sonda quantos pedidos existem no intervalo. Consulta
	// barata, usada pelo planejador de janelas.
	CountOrders(ctx context.Context, acc *domain.Account, from, to time.Time) (int, error)

	// SearchOrders busca uma página de pedidos do intervalo, do mais
	// recente para o mais antigo.
	SearchOrders(ctx context.Context, acc *domain.Account, from, to time.Time, offset, limit int) (*domain.OrderPage, error)

	// EnrichOrder anexa sub-recursos (envio, escrow) ao pedido cru.
	EnrichOrder(ctx context.Context, acc *domain.Account, order domain.RawOrder) error

	// Transform converte o pedido enriquecido em registro de venda.
	// Função pura.
	Transform(acc *domain.Account, order domain.RawOrder) (*domain.Sale, error)

	// RefreshToken renova as credenciais da conta quando necessário,
	// mutando a conta em memória. Persistência é do chamador.
	RefreshToken(ctx context.Context, acc *domain.Account) error
}

// WindowLimiter é implementado por marketplaces cuja API limita o tamanho
// do intervalo por consulta (a Shopee aceita no máximo 15 dias). O
// planejador pré-divide os períodos antes de sondar contagens.
type WindowLimiter interface {
	MaxWindowDays() int
}
