package request_models

type ReserveTransactionRequest struct {
	PaymentMethodID string `json:"payment_method_id" binding:"required,uuid"`
	PartnerID       string `json:"partner_id" binding:"required,uuid"`
	PartnerTxID     string `json:"partner_tx_id" binding:"required,max=128"`
	ProductName     string `json:"product_name" binding:"required,max=256"`
	Amount          int64  `json:"amount" binding:"required,gt=0"`
	ReturnURL       string `json:"return_url" binding:"omitempty,url"`
}

type CreateTransactionRequest struct {
	ReservationID string `json:"reservation_id" binding:"required,uuid"`
}

type BuyerRequest struct {
	Name  string `json:"name" binding:"required,max=64"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,max=20"`
}

type ApproveTransactionRequest struct {
	Buyer BuyerRequest `json:"buyer" binding:"required"`
}

type RegisterCardRequest struct {
	Provider   string `json:"provider" binding:"required"`
	CardNumber string `json:"card_number" binding:"required,numeric,min=12,max=19"`
	Expiry     string `json:"expiry" binding:"required,len=4"`
	Password   string `json:"password" binding:"required,len=2"`
	TaxID      string `json:"tax_id" binding:"required"`
}
