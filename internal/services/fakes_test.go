package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"payhub/internal/gateway"
	"payhub/internal/models/db_models"
)

var (
	testAccountID = uuid.MustParse("0b5a7c8e-9b1f-4a63-8a3f-1d2e3f405162")
	testMethodID  = uuid.MustParse("1c6b8d9f-0c20-4b74-9b40-2e3f40516273")
	testPartnerID = uuid.MustParse("2d7c9e00-1d31-4c85-ac51-3f4051627384")
	testSubID     = uuid.MustParse("3e8daf11-2e42-4d96-bd62-405162738495")
)

type fakeTransactionRepo struct {
	mu     sync.Mutex
	nextID uint
	byUuid map[string]db_models.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{byUuid: make(map[string]db_models.Transaction)}
}

func (r *fakeTransactionRepo) Create(_ context.Context, txn *db_models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// mirrors the idx_partner_tx unique index on the transactions table
	for _, existing := range r.byUuid {
		if existing.PartnerID == txn.PartnerID && existing.PartnerTxID == txn.PartnerTxID {
			return fmt.Errorf("duplicate key value violates unique constraint %q", "idx_partner_tx")
		}
	}
	r.nextID++
	txn.ID = r.nextID
	r.byUuid[txn.Uuid] = *txn
	return nil
}

func (r *fakeTransactionRepo) GetByUuid(_ context.Context, uuid string) (*db_models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.byUuid[uuid]
	if !ok {
		return nil, nil
	}
	copied := txn
	return &copied, nil
}

func (r *fakeTransactionRepo) GetByPartnerTx(_ context.Context, partnerID string, partnerTxID string) (*db_models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, txn := range r.byUuid {
		if txn.PartnerID.String() == partnerID && txn.PartnerTxID == partnerTxID {
			copied := txn
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepo) SaveInTx(_ context.Context, _ *gorm.DB, txn *db_models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUuid[txn.Uuid] = *txn
	return nil
}

func (r *fakeTransactionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUuid)
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []db_models.TransactionHistory
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (r *fakeHistoryRepo) Append(_ context.Context, history *db_models.TransactionHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *history)
	return nil
}

func (r *fakeHistoryRepo) AppendInTx(_ context.Context, _ *gorm.DB, history *db_models.TransactionHistory) error {
	return r.Append(context.Background(), history)
}

func (r *fakeHistoryRepo) ListByTransactionID(_ context.Context, transactionID uint) ([]db_models.TransactionHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []db_models.TransactionHistory
	for _, h := range r.entries {
		if h.TransactionID == transactionID {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	byID map[string]db_models.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{byID: make(map[string]db_models.Subscription)}
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, sub *db_models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	r.byID[sub.ID.String()] = *sub
	return nil
}

func (r *fakeSubscriptionRepo) GetByID(_ context.Context, id string) (*db_models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	copied := sub
	return &copied, nil
}

func (r *fakeSubscriptionRepo) Save(_ context.Context, sub *db_models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[sub.ID.String()] = *sub
	return nil
}

type fakePaymentMethodRepo struct {
	mu   sync.Mutex
	byID map[string]db_models.PaymentMethod
}

func newFakePaymentMethodRepo() *fakePaymentMethodRepo {
	return &fakePaymentMethodRepo{byID: make(map[string]db_models.PaymentMethod)}
}

func (r *fakePaymentMethodRepo) Create(_ context.Context, method *db_models.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if method.ID == uuid.Nil {
		method.ID = uuid.New()
	}
	r.byID[method.ID.String()] = *method
	return nil
}

func (r *fakePaymentMethodRepo) GetByID(_ context.Context, id string) (*db_models.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	method, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	copied := method
	return &copied, nil
}

func (r *fakePaymentMethodRepo) ListByAccountID(_ context.Context, accountID string) ([]db_models.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []db_models.PaymentMethod
	for _, m := range r.byID {
		if m.AccountID.String() == accountID {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeTxManager commits by running fn. With commitErr set it simulates a unit
// of work that rolls back: fn is not applied and the error surfaces as the
// commit failure.
type fakeTxManager struct {
	commitErr error
}

func (m *fakeTxManager) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	return fn(nil)
}

type stubGateway struct {
	mu           sync.Mutex
	name         string
	approveDelay time.Duration

	approveCalls int
	cancelCalls  int

	approveResp *gateway.ApprovalResponse
	approveErr  error
	cancelResp  *gateway.CancellationResponse
	cancelErr   error

	lastCancelTid    string
	lastCancelReason string
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		name: "stub",
		approveResp: &gateway.ApprovalResponse{
			Success:      true,
			ResponseCode: "0000",
			ProviderTxID: "T1",
			ApprovedAt:   time.Now(),
		},
		cancelResp: &gateway.CancellationResponse{
			Success:      true,
			ResponseCode: "0000",
			CanceledAt:   time.Now(),
		},
	}
}

func (g *stubGateway) Name() string { return g.name }

func (g *stubGateway) RegisterCard(_ context.Context, _ gateway.CardParams) (*gateway.RegisterCardResponse, error) {
	return &gateway.RegisterCardResponse{Success: true, ResponseCode: "0000", BillKey: "BK-1"}, nil
}

func (g *stubGateway) ApproveTransaction(_ context.Context, _ gateway.ApprovalRequest) (*gateway.ApprovalResponse, error) {
	g.mu.Lock()
	g.approveCalls++
	delay := g.approveDelay
	g.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if g.approveErr != nil {
		return nil, g.approveErr
	}
	copied := *g.approveResp
	return &copied, nil
}

func (g *stubGateway) CancelTransaction(_ context.Context, providerTxID string, reason string) (*gateway.CancellationResponse, error) {
	g.mu.Lock()
	g.cancelCalls++
	g.lastCancelTid = providerTxID
	g.lastCancelReason = reason
	g.mu.Unlock()

	if g.cancelErr != nil {
		return nil, g.cancelErr
	}
	copied := *g.cancelResp
	return &copied, nil
}

func (g *stubGateway) CardReceiptURL(providerTxID string) string {
	return "https://stub.invalid/receipt/" + providerTxID
}

func (g *stubGateway) approveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.approveCalls
}

func (g *stubGateway) cancelCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancelCalls
}

type recordingAlertNotifier struct {
	mu     sync.Mutex
	alerts []ReconciliationAlert
}

func (n *recordingAlertNotifier) NotifyReconciliationRequired(_ context.Context, alert ReconciliationAlert) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
}

func (n *recordingAlertNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

func testPaymentConfig() PaymentConfig {
	return PaymentConfig{
		MinAmount:          100,
		CancelReason:       "customer requested cancellation",
		CompensationReason: "internal approval failure",
		ReservationTTL:     time.Hour,
		IdempotencyTTL:     24 * time.Hour,
	}
}

func seedReservedTransaction(repo *fakeTransactionRepo) *db_models.Transaction {
	txn := &db_models.Transaction{
		Uuid:            uuid.NewString(),
		AccountID:       testAccountID,
		PaymentMethodID: testMethodID,
		PartnerID:       testPartnerID,
		PartnerTxID:     "partner-tx-" + uuid.NewString()[:8],
		ProductName:     "coffee",
		Amount:          10000,
		Status:          db_models.TxnStatusReserved,
		CreatedAt:       time.Now().Unix(),
	}
	_ = repo.Create(context.Background(), txn)
	return txn
}

func seedPaymentMethod(repo *fakePaymentMethodRepo, provider string) {
	_ = repo.Create(context.Background(), &db_models.PaymentMethod{
		BaseModel: db_models.BaseModel{ID: testMethodID},
		AccountID: testAccountID,
		Provider:  provider,
		BillKey:   "BK-1",
	})
}

func seedSubscription(repo *fakeSubscriptionRepo, amount int64) *db_models.Subscription {
	sub := &db_models.Subscription{
		BaseModel:       db_models.BaseModel{ID: testSubID},
		AccountID:       testAccountID,
		PaymentMethodID: testMethodID,
		PartnerID:       testPartnerID,
		ProductName:     "premium plan",
		Amount:          amount,
		SubscribedAt:    time.Now().Unix(),
	}
	_ = repo.Create(context.Background(), sub)
	return sub
}
