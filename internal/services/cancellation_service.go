package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"payhub/internal/gateway"
	"payhub/internal/models/db_models"
	"payhub/internal/models/response_models"
	"payhub/internal/repositories"
	"payhub/pkg/lockstore"
	"payhub/pkg/utils"
)

type CancellationServiceInterface interface {
	Cancel(ctx context.Context, txnUuid string) (*response_models.TransactionCancellationResult, error)
}

// CancellationService voids an approved transaction. It is idempotent by
// rejection rather than by locking: voiding an already-voided transaction is a
// terminal no-op at the domain level, and the gateway tolerates replayed
// cancellations (AlreadyCanceled), so the approval path's lock protocol is
// unnecessary here.
type CancellationService struct {
	txns      repositories.ITransactionRepository
	histories repositories.ITransactionHistoryRepository
	txManager repositories.TxManager
	registry  *gateway.Registry
	locks     lockstore.Store
	alerts    AlertNotifier
	cfg       PaymentConfig
	logger    *zap.Logger
}

func NewCancellationService(
	txns repositories.ITransactionRepository,
	histories repositories.ITransactionHistoryRepository,
	txManager repositories.TxManager,
	registry *gateway.Registry,
	locks lockstore.Store,
	alerts AlertNotifier,
	cfg PaymentConfig,
	logger *zap.Logger,
) CancellationServiceInterface {
	return &CancellationService{
		txns:      txns,
		histories: histories,
		txManager: txManager,
		registry:  registry,
		locks:     locks,
		alerts:    alerts,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *CancellationService) Cancel(ctx context.Context, txnUuid string) (*response_models.TransactionCancellationResult, error) {
	txn, err := s.txns.GetByUuid(ctx, txnUuid)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, utils.ErrNotFoundTransaction
	}
	switch txn.Status {
	case db_models.TxnStatusCanceled:
		return nil, utils.ErrAlreadyCancelledTransaction
	case db_models.TxnStatusReserved:
		// an unapproved reservation has nothing to void; it expires on its own
		return nil, fmt.Errorf("%w: cannot cancel a %s transaction", utils.ErrIllegalStateTransition, txn.Status)
	}

	handler, err := s.registry.Get(txn.Provider)
	if err != nil {
		return nil, err
	}

	resp, err := handler.CancelTransaction(ctx, txn.ProviderTxID, s.cfg.CancelReason)
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		history := historyRecord(txn.ID, db_models.HistoryActionCancel, false, resp.ResponseCode, resp.ResponseMessage, resp.Payload)
		if histErr := s.histories.Append(ctx, history); histErr != nil {
			s.logger.Error("failed to record declined cancellation", zap.Error(histErr), zap.String("transaction_uuid", txn.Uuid))
		}
		return nil, utils.NewTransactionCancellationError(resp.ResponseCode, resp.ResponseMessage)
	}

	// AlreadyCanceled counts as success: the refund happened, possibly during
	// an earlier compensation or a crashed cancel attempt; the local ledger
	// still has to catch up.
	canceledAt := resp.CanceledAt
	if canceledAt.IsZero() {
		canceledAt = time.Now()
	}

	commitErr := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := txn.Cancel(canceledAt); err != nil {
			return err
		}
		if err := s.txns.SaveInTx(ctx, tx, txn); err != nil {
			return err
		}
		history := historyRecord(txn.ID, db_models.HistoryActionCancel, true, resp.ResponseCode, resp.ResponseMessage, resp.Payload)
		return s.histories.AppendInTx(ctx, tx, history)
	})
	if commitErr != nil {
		// money was refunded but the ledger disagrees; nothing on the gateway
		// side can undo a refund, so this goes to operators
		s.alerts.NotifyReconciliationRequired(ctx, ReconciliationAlert{
			Reason:          "gateway cancellation succeeded but the local commit failed",
			TransactionUuid: txn.Uuid,
			PartnerTxID:     txn.PartnerTxID,
			ProviderTxID:    txn.ProviderTxID,
			Amount:          txn.Amount,
			ResponseCode:    resp.ResponseCode,
			ResponseMessage: resp.ResponseMessage,
		})
		return nil, commitErr
	}

	// the cached approval result must not replay for a canceled transaction
	if key, ok := s.locks.Get(transactionIdempotencyKey(txn.Uuid)); ok {
		s.locks.Delete(key)
		s.locks.Delete(transactionIdempotencyKey(txn.Uuid))
	}

	s.logger.Info("transaction canceled",
		zap.String("transaction_uuid", txn.Uuid),
		zap.String("provider_tx_id", txn.ProviderTxID),
		zap.Bool("already_canceled_at_gateway", resp.AlreadyCanceled),
	)

	return cancellationResult(txn), nil
}

func cancellationResult(txn *db_models.Transaction) *response_models.TransactionCancellationResult {
	result := &response_models.TransactionCancellationResult{
		TransactionID: txn.Uuid,
		PartnerTxID:   txn.PartnerTxID,
		ProductName:   txn.ProductName,
		Amount:        txn.Amount,
	}
	if txn.ApprovedAt != nil {
		result.ApprovedAt = utils.FormatUnixRFC3339(*txn.ApprovedAt)
	}
	if txn.CanceledAt != nil {
		result.CanceledAt = utils.FormatUnixRFC3339(*txn.CanceledAt)
	}
	return result
}
