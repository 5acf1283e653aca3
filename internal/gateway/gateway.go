// Package gateway abstracts the external payment gateways (PGs) the service
// charges through. Responses are value objects: a declined card, insufficient
// funds or a minimum-amount violation come back as Success=false with the
// gateway's response code, never as a Go error. Only transport-level failures
// (connectivity, timeouts) are returned as errors.
//
// Handlers perform no idempotency of their own; the approval processor owns
// that. A handler must however tolerate CancelTransaction against an already
// canceled gateway transaction (AlreadyCanceled=true, Success=true), because
// compensation may replay after a crash.
package gateway

import (
	"context"
	"time"
)

type Buyer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// CardParams carries raw card data through registration only; it is never
// persisted.
type CardParams struct {
	CardNumber string
	Expiry     string // YYMM
	Password   string // first two digits
	TaxID      string // birthdate or business number
}

type ApprovalRequest struct {
	TransactionUuid string
	PartnerTxID     string
	ProductName     string
	Amount          int64
	GatewayKey      string // one-time payment key or stored bill key
	Buyer           Buyer
}

type RegisterCardResponse struct {
	Success         bool
	ResponseCode    string
	ResponseMessage string
	BillKey         string
	IssuerCode      string
}

type ApprovalResponse struct {
	Success         bool
	ResponseCode    string
	ResponseMessage string
	ProviderTxID    string
	Amount          int64
	ApprovedAt      time.Time
	Payload         []byte // raw gateway response for the audit trail
}

type CancellationResponse struct {
	Success         bool
	ResponseCode    string
	ResponseMessage string
	AlreadyCanceled bool
	Amount          int64
	CanceledAt      time.Time
	Payload         []byte
}

type Handler interface {
	Name() string
	RegisterCard(ctx context.Context, card CardParams) (*RegisterCardResponse, error)
	ApproveTransaction(ctx context.Context, req ApprovalRequest) (*ApprovalResponse, error)
	CancelTransaction(ctx context.Context, providerTxID string, reason string) (*CancellationResponse, error)
	// CardReceiptURL builds the customer-facing receipt link. Read-only, no
	// network call.
	CardReceiptURL(providerTxID string) string
}
