package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SandboxHandler is an in-process gateway for local development. It approves
// everything above the minimum amount, issues deterministic-looking ids, and
// keeps just enough state to answer cancellations and replays the way a real
// gateway would.
type SandboxHandler struct {
	minAmount int64

	mu       sync.Mutex
	approved map[string]int64 // provider tx id -> amount
	canceled map[string]time.Time
}

func NewSandboxHandler(minAmount int64) *SandboxHandler {
	return &SandboxHandler{
		minAmount: minAmount,
		approved:  make(map[string]int64),
		canceled:  make(map[string]time.Time),
	}
}

func (h *SandboxHandler) Name() string {
	return "sandbox"
}

func (h *SandboxHandler) RegisterCard(_ context.Context, card CardParams) (*RegisterCardResponse, error) {
	if len(card.CardNumber) < 12 {
		return &RegisterCardResponse{
			Success:         false,
			ResponseCode:    "C001",
			ResponseMessage: "card number verification failed",
		}, nil
	}

	return &RegisterCardResponse{
		Success:      true,
		ResponseCode: "0000",
		BillKey:      "SBX-KEY-" + uuid.NewString(),
		IssuerCode:   "361", // looks like a bank code, means nothing
	}, nil
}

func (h *SandboxHandler) ApproveTransaction(_ context.Context, req ApprovalRequest) (*ApprovalResponse, error) {
	if req.Amount < h.minAmount {
		return &ApprovalResponse{
			Success:         false,
			ResponseCode:    "P002",
			ResponseMessage: fmt.Sprintf("amount below minimum (%d)", h.minAmount),
		}, nil
	}

	tid := "SBX-" + uuid.NewString()

	h.mu.Lock()
	h.approved[tid] = req.Amount
	h.mu.Unlock()

	return &ApprovalResponse{
		Success:      true,
		ResponseCode: "0000",
		ProviderTxID: tid,
		Amount:       req.Amount,
		ApprovedAt:   time.Now(),
	}, nil
}

func (h *SandboxHandler) CancelTransaction(_ context.Context, providerTxID string, _ string) (*CancellationResponse, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if at, ok := h.canceled[providerTxID]; ok {
		return &CancellationResponse{
			Success:         true,
			ResponseCode:    "0000",
			AlreadyCanceled: true,
			Amount:          h.approved[providerTxID],
			CanceledAt:      at,
		}, nil
	}

	amount, ok := h.approved[providerTxID]
	if !ok {
		return &CancellationResponse{
			Success:         false,
			ResponseCode:    "P404",
			ResponseMessage: "unknown transaction",
		}, nil
	}

	now := time.Now()
	h.canceled[providerTxID] = now

	return &CancellationResponse{
		Success:      true,
		ResponseCode: "0000",
		Amount:       amount,
		CanceledAt:   now,
	}, nil
}

func (h *SandboxHandler) CardReceiptURL(providerTxID string) string {
	return "https://sandbox.invalid/receipt/" + providerTxID
}
