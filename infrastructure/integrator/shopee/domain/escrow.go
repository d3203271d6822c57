package domain

// EscrowDetail é o detalhe financeiro de /api/v2/payment/get_escrow_detail.
// É daqui que saem as taxas da plataforma e o frete líquido.
type EscrowDetail struct {
	OrderSN     string      `json:"order_sn"`
	OrderIncome OrderIncome `json:"order_income"`
}

type OrderIncome struct {
	EscrowAmount               float64 `json:"escrow_amount"`
	CommissionFee              float64 `json:"commission_fee"`
	ServiceFee                 float64 `json:"service_fee"`
	AMSCommissionFee           float64 `json:"ams_commission_fee"`
	ActualShippingFee          float64 `json:"actual_shipping_fee"`
	ReverseShippingFee         float64 `json:"reverse_shipping_fee"`
	ShopeeShippingRebate       float64 `json:"shopee_shipping_rebate"`
	BuyerPaidShippingFee       float64 `json:"buyer_paid_shipping_fee"`
	ShippingFeeDiscountFrom3PL float64 `json:"shipping_fee_discount_from_3pl"`
}

type EscrowResponse struct {
	EscrowDetail *EscrowDetail `json:"escrow_detail"`
}
