package domain

// Shipment é o envio associado a um pedido, buscado em /shipments/{id}
// durante o enriquecimento.
type Shipment struct {
	ID              int64           `json:"id"`
	Status          string          `json:"status"`
	LogisticType    string          `json:"logistic_type"`
	Cost            *float64        `json:"cost"`
	BaseCost        *float64        `json:"base_cost"`
	ShippingOption  ShippingOption  `json:"shipping_option"`
	ReceiverAddress ReceiverAddress `json:"receiver_address"`
}

type ShippingOption struct {
	Cost     *float64 `json:"cost"`
	ListCost *float64 `json:"list_cost"`
}

type ReceiverAddress struct {
	City  AddressPart `json:"city"`
	State AddressPart `json:"state"`
}

type AddressPart struct {
	Name string `json:"name"`
}
