package response_models

// Wire timestamps are RFC3339 with offset throughout.

type ReservationResponse struct {
	ReservationID string `json:"reservation_id"`
	ReservedAt    string `json:"reserved_at"`
}

type TransactionResponse struct {
	TransactionID string `json:"transaction_id"`
	PartnerTxID   string `json:"partner_tx_id"`
	ProductName   string `json:"product_name"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
	ReservedAt    string `json:"reserved_at"`
	ApprovedAt    string `json:"approved_at,omitempty"`
	CanceledAt    string `json:"canceled_at,omitempty"`
}

// TransactionApprovalResult is what approval returns and what the idempotency
// layer caches; replays deserialize this exact value.
type TransactionApprovalResult struct {
	TransactionID string `json:"transaction_id"`
	PartnerTxID   string `json:"partner_tx_id"`
	ProductName   string `json:"product_name"`
	Amount        int64  `json:"amount"`
	ReservedAt    string `json:"reserved_at"`
	ApprovedAt    string `json:"approved_at"`
}

type TransactionCancellationResult struct {
	TransactionID string `json:"transaction_id"`
	PartnerTxID   string `json:"partner_tx_id"`
	ProductName   string `json:"product_name"`
	Amount        int64  `json:"amount"`
	ApprovedAt    string `json:"approved_at"`
	CanceledAt    string `json:"canceled_at"`
}

type CardRegistrationResult struct {
	PaymentMethodID string `json:"payment_method_id"`
	Provider        string `json:"provider"`
	CardAlias       string `json:"card_alias"`
	IssuerCode      string `json:"issuer_code"`
}

type SubscriptionResult struct {
	SubscriptionID string `json:"subscription_id"`
	ProductName    string `json:"product_name"`
	Amount         int64  `json:"amount"`
	SubscribedAt   string `json:"subscribed_at"`
}
