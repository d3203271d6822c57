package domain

import (
	"time"
)

// RawOrder é um pedido cru devolvido pelo marketplace, antes da
// transformação em Sale. Cada integrador usa seu tipo concreto; o motor de
// sincronização só precisa da identidade e da data da venda.
type RawOrder interface {
	OrderID() string
	SoldAt() time.Time
}

// OrderPage é uma página de resultados da busca de pedidos, com o total
// reportado pelo marketplace para o intervalo consultado.
type OrderPage struct {
	Orders []RawOrder
	Total  int
}
