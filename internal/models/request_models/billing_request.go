package request_models

type SubscribeRequest struct {
	PaymentMethodID string `json:"payment_method_id" binding:"required,uuid"`
	PartnerID       string `json:"partner_id" binding:"required,uuid"`
	ProductName     string `json:"product_name" binding:"required,max=256"`
	Amount          int64  `json:"amount" binding:"required,gt=0"`
}

type BillingPaymentRequest struct {
	PartnerTxID string       `json:"partner_tx_id" binding:"required,max=128"`
	InvoiceID   string       `json:"invoice_id" binding:"required,max=128"`
	Amount      int64        `json:"amount" binding:"required,gt=0"`
	Buyer       BuyerRequest `json:"buyer" binding:"required"`
}
