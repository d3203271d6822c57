package domain

import (
	"time"
)

// Order é o pedido detalhado devolvido por /api/v2/order/get_order_detail.
// O escrow é anexado pelo enriquecimento.
type Order struct {
	OrderSN         string           `json:"order_sn"`
	OrderStatus     string           `json:"order_status"`
	CreateTime      int64            `json:"create_time"`
	TotalAmount     float64          `json:"total_amount"`
	BuyerUsername   string           `json:"buyer_username"`
	ItemList        []OrderItem      `json:"item_list"`
	PackageList     []Package        `json:"package_list"`
	ShippingCarrier string           `json:"shipping_carrier"`
	RecipientAddress RecipientAddress `json:"recipient_address"`

	Escrow *EscrowDetail `json:"-"`
	Raw    []byte        `json:"-"`
}

func (o *Order) OrderID() string {
	return o.OrderSN
}

func (o *Order) SoldAt() time.Time {
	return time.Unix(o.CreateTime, 0).UTC()
}

// Quantity soma as quantidades dos modelos comprados. Pedido sem itens
// conta como uma unidade.
func (o *Order) Quantity() int {
	total := 0
	for _, item := range o.ItemList {
		total += item.ModelQuantityPurchased
	}
	if total == 0 {
		total = 1
	}
	return total
}

type OrderItem struct {
	ItemName               string  `json:"item_name"`
	ItemSKU                string  `json:"item_sku"`
	ModelSKU               string  `json:"model_sku"`
	VariationSKU           string  `json:"variation_sku"`
	ModelQuantityPurchased int     `json:"model_quantity_purchased"`
	ModelOriginalPrice     float64 `json:"model_original_price"`
}

// SKU resolve o código do item na ordem de prioridade
// item_sku > model_sku > variation_sku.
func (i OrderItem) SKU() string {
	if i.ItemSKU != "" {
		return i.ItemSKU
	}
	if i.ModelSKU != "" {
		return i.ModelSKU
	}
	return i.VariationSKU
}

type Package struct {
	TrackingNumber              string `json:"tracking_number"`
	ShippingCarrier             string `json:"shipping_carrier"`
	LogisticsStatus             string `json:"logistics_status"`
	ParcelChargeableWeightGram  int    `json:"parcel_chargeable_weight_gram"`
}

type RecipientAddress struct {
	City  string `json:"city"`
	State string `json:"state"`
}

type OrderListEntry struct {
	OrderSN string `json:"order_sn"`
}

type OrderListResponse struct {
	OrderList  []OrderListEntry `json:"order_list"`
	More       bool             `json:"more"`
	NextCursor string           `json:"next_cursor"`
}

type OrderDetailResponse struct {
	OrderList []*Order `json:"order_list"`
}
