package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"payhub/internal/gateway"
	"payhub/internal/models/db_models"
	"payhub/pkg/lockstore"
	"payhub/pkg/utils"
)

type transactionFixture struct {
	txns         *fakeTransactionRepo
	reservations ReservationServiceInterface
	gw           *stubGateway
	svc          TransactionServiceInterface
}

func newTransactionFixture() *transactionFixture {
	f := &transactionFixture{
		txns: newFakeTransactionRepo(),
		gw:   newStubGateway(),
	}
	f.reservations = NewReservationService(lockstore.NewMemoryStore(), testPaymentConfig(), zap.NewNop())
	f.svc = NewTransactionService(f.reservations, f.txns, gateway.NewRegistry(f.gw), zap.NewNop())
	return f
}

func (f *transactionFixture) reserve(t *testing.T) string {
	t.Helper()
	id, err := f.reservations.Reserve(context.Background(), validParams())
	require.NoError(t, err)
	return id
}

func TestCreateTransactionFromReservation(t *testing.T) {
	f := newTransactionFixture()
	reservationID := f.reserve(t)

	txn, err := f.svc.CreateTransaction(context.Background(), testAccountID.String(), reservationID)

	require.NoError(t, err)
	assert.NotEmpty(t, txn.TransactionID)
	assert.Equal(t, "partner-tx-1", txn.PartnerTxID)
	assert.Equal(t, string(db_models.TxnStatusReserved), txn.Status)
	assert.Equal(t, 1, f.txns.count())
}

func TestCreateTransactionTwiceReturnsSameRow(t *testing.T) {
	f := newTransactionFixture()
	reservationID := f.reserve(t)

	first, err := f.svc.CreateTransaction(context.Background(), testAccountID.String(), reservationID)
	require.NoError(t, err)
	second, err := f.svc.CreateTransaction(context.Background(), testAccountID.String(), reservationID)
	require.NoError(t, err)

	assert.Equal(t, first.TransactionID, second.TransactionID)
	assert.Equal(t, 1, f.txns.count())
}

func TestGetReceiptURLForApprovedTransaction(t *testing.T) {
	f := newTransactionFixture()
	txn := seedReservedTransaction(f.txns)
	require.NoError(t, txn.Approve("T1", time.Now()))
	txn.Provider = f.gw.name
	require.NoError(t, f.txns.SaveInTx(context.Background(), nil, txn))

	url, err := f.svc.GetReceiptURL(context.Background(), testAccountID.String(), txn.Uuid)

	require.NoError(t, err)
	assert.Equal(t, "https://stub.invalid/receipt/T1", url)
}

func TestGetReceiptURLForUnapprovedTransaction(t *testing.T) {
	f := newTransactionFixture()
	txn := seedReservedTransaction(f.txns)

	_, err := f.svc.GetReceiptURL(context.Background(), testAccountID.String(), txn.Uuid)

	assert.ErrorIs(t, err, utils.ErrNotApprovedTransaction)
}

func TestGetTransactionOwnerMismatch(t *testing.T) {
	f := newTransactionFixture()
	txn := seedReservedTransaction(f.txns)

	_, err := f.svc.GetTransaction(context.Background(), testPartnerID.String(), txn.Uuid)

	assert.ErrorIs(t, err, utils.ErrNonTransactionOwner)
}
