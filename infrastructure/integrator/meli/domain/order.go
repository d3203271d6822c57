package domain

import (
	"strconv"
	"time"
)

// Order é o pedido cru devolvido pela busca /orders/search do Mercado Livre.
// Apenas os campos consumidos pela transformação são mapeados; o payload
// completo é preservado em Raw para o snapshot.
type Order struct {
	ID           int64          `json:"id"`
	Status       string         `json:"status"`
	DateCreated  time.Time      `json:"date_created"`
	DateClosed   *time.Time     `json:"date_closed"`
	TotalAmount  float64        `json:"total_amount"`
	PaidAmount   float64        `json:"paid_amount"`
	CurrencyID   string         `json:"currency_id"`
	Buyer        Buyer          `json:"buyer"`
	OrderItems   []OrderItem    `json:"order_items"`
	Shipping     OrderShipping  `json:"shipping"`
	Tags         []string       `json:"tags"`
	InternalTags []string       `json:"internal_tags"`

	// Preenchido pelo enriquecimento; nil quando o fetch do envio falhou.
	Shipment *Shipment `json:"-"`
	Raw      []byte    `json:"-"`
}

func (o *Order) OrderID() string {
	return strconv.FormatInt(o.ID, 10)
}

func (o *Order) SoldAt() time.Time {
	return o.DateCreated
}

// Quantity soma as quantidades dos itens do pedido. Pedido sem itens conta
// como uma unidade.
func (o *Order) Quantity() int {
	total := 0
	for _, item := range o.OrderItems {
		total += item.Quantity
	}
	if total == 0 {
		total = 1
	}
	return total
}

type Buyer struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

type OrderItem struct {
	Item          Item    `json:"item"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	SaleFee       float64 `json:"sale_fee"`
	ListingTypeID string  `json:"listing_type_id"`
}

type Item struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	SellerSKU string `json:"seller_sku"`
}

type OrderShipping struct {
	ID   int64    `json:"id"`
	Mode string   `json:"mode"`
	Cost *float64 `json:"cost"`
}

type OrderSearchResponse struct {
	Results []*Order `json:"results"`
	Paging  Paging   `json:"paging"`
}

type Paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
