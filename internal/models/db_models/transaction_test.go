package db_models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payhub/pkg/utils"
)

func reservedTransaction() *Transaction {
	return &Transaction{
		Uuid:        "5f0c1e04-1111-2222-3333-444455556666",
		PartnerTxID: "partner-tx-1",
		ProductName: "coffee",
		Amount:      10000,
		Status:      TxnStatusReserved,
	}
}

func TestApproveFromReserved(t *testing.T) {
	txn := reservedTransaction()
	at := time.Now()

	require.NoError(t, txn.Approve("T1", at))

	assert.Equal(t, TxnStatusApproved, txn.Status)
	assert.Equal(t, "T1", txn.ProviderTxID)
	require.NotNil(t, txn.ApprovedAt)
	assert.Equal(t, at.Unix(), *txn.ApprovedAt)
}

func TestApproveTwiceIsIllegal(t *testing.T) {
	txn := reservedTransaction()
	require.NoError(t, txn.Approve("T1", time.Now()))

	err := txn.Approve("T2", time.Now())

	assert.ErrorIs(t, err, utils.ErrIllegalStateTransition)
	assert.Equal(t, "T1", txn.ProviderTxID)
}

func TestCancelFromApproved(t *testing.T) {
	txn := reservedTransaction()
	require.NoError(t, txn.Approve("T1", time.Now()))

	at := time.Now()
	require.NoError(t, txn.Cancel(at))

	assert.Equal(t, TxnStatusCanceled, txn.Status)
	require.NotNil(t, txn.CanceledAt)
	assert.Equal(t, at.Unix(), *txn.CanceledAt)
	// approval timestamp is kept once the transaction was ever approved
	assert.NotNil(t, txn.ApprovedAt)
}

func TestCancelFromReservedIsIllegal(t *testing.T) {
	txn := reservedTransaction()

	err := txn.Cancel(time.Now())

	assert.ErrorIs(t, err, utils.ErrIllegalStateTransition)
	assert.Equal(t, TxnStatusReserved, txn.Status)
	assert.Nil(t, txn.CanceledAt)
}

func TestCancelTwice(t *testing.T) {
	txn := reservedTransaction()
	require.NoError(t, txn.Approve("T1", time.Now()))
	require.NoError(t, txn.Cancel(time.Now()))

	err := txn.Cancel(time.Now())

	assert.ErrorIs(t, err, utils.ErrAlreadyCancelledTransaction)
}

func TestApproveAfterCancelIsIllegal(t *testing.T) {
	txn := reservedTransaction()
	require.NoError(t, txn.Approve("T1", time.Now()))
	require.NoError(t, txn.Cancel(time.Now()))

	err := txn.Approve("T2", time.Now())

	assert.ErrorIs(t, err, utils.ErrIllegalStateTransition)
	assert.Equal(t, TxnStatusCanceled, txn.Status)
}

func TestRevertApproval(t *testing.T) {
	txn := reservedTransaction()
	require.NoError(t, txn.Approve("T1", time.Now()))

	txn.RevertApproval()

	assert.Equal(t, TxnStatusReserved, txn.Status)
	assert.Empty(t, txn.ProviderTxID)
	assert.Nil(t, txn.ApprovedAt)
}
