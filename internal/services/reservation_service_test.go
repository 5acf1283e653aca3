package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"payhub/pkg/lockstore"
	"payhub/pkg/utils"
)

func newReservationService(cfg PaymentConfig) (ReservationServiceInterface, *lockstore.MemoryStore) {
	store := lockstore.NewMemoryStore()
	return NewReservationService(store, cfg, zap.NewNop()), store
}

func validParams() ReservedTransactionParams {
	return ReservedTransactionParams{
		OwnerID:         testAccountID.String(),
		PaymentMethodID: testMethodID.String(),
		PartnerID:       testPartnerID.String(),
		PartnerTxID:     "partner-tx-1",
		ProductName:     "coffee",
		Amount:          10000,
		ReturnURL:       "https://partner.example.com/return",
	}
}

func TestReserveAndConsume(t *testing.T) {
	svc, _ := newReservationService(testPaymentConfig())

	id, err := svc.Reserve(context.Background(), validParams())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	params, err := svc.Consume(context.Background(), id, testAccountID.String())
	require.NoError(t, err)
	assert.Equal(t, "partner-tx-1", params.PartnerTxID)
	assert.Equal(t, int64(10000), params.Amount)
	assert.NotZero(t, params.ReservedAt)
}

func TestConsumeIsRepeatable(t *testing.T) {
	svc, _ := newReservationService(testPaymentConfig())

	id, err := svc.Reserve(context.Background(), validParams())
	require.NoError(t, err)

	first, err := svc.Consume(context.Background(), id, testAccountID.String())
	require.NoError(t, err)
	second, err := svc.Consume(context.Background(), id, testAccountID.String())
	require.NoError(t, err)

	// duplicate create calls must observe consistent parameters
	assert.Equal(t, first, second)
}

func TestConsumeOwnerMismatch(t *testing.T) {
	svc, _ := newReservationService(testPaymentConfig())

	id, err := svc.Reserve(context.Background(), validParams())
	require.NoError(t, err)

	_, err = svc.Consume(context.Background(), id, testPartnerID.String())
	assert.ErrorIs(t, err, utils.ErrNonTransactionOwner)
}

func TestConsumeMissingReservation(t *testing.T) {
	svc, _ := newReservationService(testPaymentConfig())

	_, err := svc.Consume(context.Background(), "bcd8a7be-0000-0000-0000-000000000000", testAccountID.String())
	assert.ErrorIs(t, err, utils.ErrNotReservedTransaction)
}

func TestConsumeExpiredReservation(t *testing.T) {
	cfg := testPaymentConfig()
	cfg.ReservationTTL = 10 * time.Millisecond
	svc, _ := newReservationService(cfg)

	id, err := svc.Reserve(context.Background(), validParams())
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = svc.Consume(context.Background(), id, testAccountID.String())
	assert.ErrorIs(t, err, utils.ErrNotReservedTransaction)
}

func TestReserveBelowMinimumAmount(t *testing.T) {
	svc, _ := newReservationService(testPaymentConfig())

	params := validParams()
	params.Amount = 50

	_, err := svc.Reserve(context.Background(), params)
	assert.ErrorIs(t, err, utils.ErrInvalidReservation)
}

func TestReserveInvalidParams(t *testing.T) {
	svc, _ := newReservationService(testPaymentConfig())

	params := validParams()
	params.ProductName = ""

	_, err := svc.Reserve(context.Background(), params)
	assert.ErrorIs(t, err, utils.ErrInvalidReservation)
}
