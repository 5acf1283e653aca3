package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type RestConfig struct {
	ProviderName string // e.g. "kcp"
	BaseURL      string
	MerchantKey  string
	Timeout      time.Duration // defaults to 10s
}

// RestHandler talks to a gateway exposing a JSON-over-HTTPS merchant API.
// 2xx/4xx responses carry a parseable envelope and map to value objects;
// 5xx and transport failures become errors.
type RestHandler struct {
	cfg    RestConfig
	client *http.Client
}

func NewRestHandler(cfg RestConfig) *RestHandler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &RestHandler{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (h *RestHandler) Name() string {
	return h.cfg.ProviderName
}

// envelope is the common shape of the merchant API responses.
type envelope struct {
	Success         bool   `json:"success"`
	ResponseCode    string `json:"code"`
	ResponseMessage string `json:"message"`

	BillKey    string `json:"bill_key,omitempty"`
	IssuerCode string `json:"issuer_code,omitempty"`

	ProviderTxID    string `json:"tid,omitempty"`
	Amount          int64  `json:"amount,omitempty"`
	ApprovedAt      string `json:"approved_at,omitempty"`
	AlreadyCanceled bool   `json:"already_canceled,omitempty"`
	CanceledAt      string `json:"canceled_at,omitempty"`
}

func (h *RestHandler) post(ctx context.Context, path string, body any) (*envelope, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.cfg.MerchantKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("gateway %s unreachable: %w", h.cfg.ProviderName, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("gateway %s response read: %w", h.cfg.ProviderName, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, nil, fmt.Errorf("gateway %s returned status %d", h.cfg.ProviderName, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, nil, fmt.Errorf("gateway %s malformed response: %w", h.cfg.ProviderName, err)
	}

	return &env, raw, nil
}

func (h *RestHandler) RegisterCard(ctx context.Context, card CardParams) (*RegisterCardResponse, error) {
	env, _, err := h.post(ctx, "/v1/cards", map[string]string{
		"card_number": card.CardNumber,
		"expiry":      card.Expiry,
		"password":    card.Password,
		"tax_id":      card.TaxID,
	})
	if err != nil {
		return nil, err
	}

	return &RegisterCardResponse{
		Success:         env.Success,
		ResponseCode:    env.ResponseCode,
		ResponseMessage: env.ResponseMessage,
		BillKey:         env.BillKey,
		IssuerCode:      env.IssuerCode,
	}, nil
}

func (h *RestHandler) ApproveTransaction(ctx context.Context, req ApprovalRequest) (*ApprovalResponse, error) {
	env, raw, err := h.post(ctx, "/v1/payments", map[string]any{
		"order_id":     req.PartnerTxID,
		"reference":    req.TransactionUuid,
		"product_name": req.ProductName,
		"amount":       req.Amount,
		"bill_key":     req.GatewayKey,
		"buyer":        req.Buyer,
	})
	if err != nil {
		return nil, err
	}

	return &ApprovalResponse{
		Success:         env.Success,
		ResponseCode:    env.ResponseCode,
		ResponseMessage: env.ResponseMessage,
		ProviderTxID:    env.ProviderTxID,
		Amount:          env.Amount,
		ApprovedAt:      parseGatewayTime(env.ApprovedAt),
		Payload:         raw,
	}, nil
}

func (h *RestHandler) CancelTransaction(ctx context.Context, providerTxID string, reason string) (*CancellationResponse, error) {
	env, raw, err := h.post(ctx, "/v1/payments/"+providerTxID+"/cancel", map[string]string{
		"reason": reason,
	})
	if err != nil {
		return nil, err
	}

	return &CancellationResponse{
		Success:         env.Success,
		ResponseCode:    env.ResponseCode,
		ResponseMessage: env.ResponseMessage,
		AlreadyCanceled: env.AlreadyCanceled,
		Amount:          env.Amount,
		CanceledAt:      parseGatewayTime(env.CanceledAt),
		Payload:         raw,
	}, nil
}

func (h *RestHandler) CardReceiptURL(providerTxID string) string {
	return h.cfg.BaseURL + "/receipt/" + providerTxID
}

func parseGatewayTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
