package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"payhub/internal/gateway"
	"payhub/internal/models/db_models"
	"payhub/internal/models/response_models"
	"payhub/internal/repositories"
	"payhub/pkg/lockstore"
	"payhub/pkg/utils"
)

const (
	idemKeyPrefix        = "idempotency:"
	idemReverseKeyPrefix = "idempotency:transaction:"
	idemLockField        = "lock"
	idemResultField      = "result"

	oneTimeApprovalOp = "ONE_TIME_PAYMENT_TRANSACTION_APPROVAL"
	billingApprovalOp = "BILLING_PAYMENT_TRANSACTION_APPROVAL"
)

func idempotencyKey(identity string) string {
	sum := sha256.Sum256([]byte(identity))
	return idemKeyPrefix + hex.EncodeToString(sum[:])
}

// transactionIdempotencyKey is the reverse index: cancellation purges the
// cached approval result through it.
func transactionIdempotencyKey(txnUuid string) string {
	return idemReverseKeyPrefix + txnUuid
}

type BillingPaymentCommand struct {
	SubscriptionID string
	PartnerTxID    string
	InvoiceID      string
	Amount         int64
	Buyer          gateway.Buyer
}

type ApprovalServiceInterface interface {
	ApproveOneTime(ctx context.Context, txnUuid string, buyer gateway.Buyer) (*response_models.TransactionApprovalResult, error)

	// PayBillingSubscription charges a stored bill key for one invoice. The
	// (subscription id, invoice id) pair is the idempotency identity, so the
	// same invoice can never be charged twice.
	PayBillingSubscription(ctx context.Context, cmd BillingPaymentCommand) (*response_models.TransactionApprovalResult, error)
}

type ApprovalService struct {
	txns      repositories.ITransactionRepository
	histories repositories.ITransactionHistoryRepository
	subs      repositories.ISubscriptionRepository
	methods   repositories.IPaymentMethodRepository
	txManager repositories.TxManager
	registry  *gateway.Registry
	locks     lockstore.Store
	alerts    AlertNotifier
	cfg       PaymentConfig
	logger    *zap.Logger
}

func NewApprovalService(
	txns repositories.ITransactionRepository,
	histories repositories.ITransactionHistoryRepository,
	subs repositories.ISubscriptionRepository,
	methods repositories.IPaymentMethodRepository,
	txManager repositories.TxManager,
	registry *gateway.Registry,
	locks lockstore.Store,
	alerts AlertNotifier,
	cfg PaymentConfig,
	logger *zap.Logger,
) ApprovalServiceInterface {
	return &ApprovalService{
		txns:      txns,
		histories: histories,
		subs:      subs,
		methods:   methods,
		txManager: txManager,
		registry:  registry,
		locks:     locks,
		alerts:    alerts,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *ApprovalService) ApproveOneTime(ctx context.Context, txnUuid string, buyer gateway.Buyer) (*response_models.TransactionApprovalResult, error) {
	identity := fmt.Sprintf("%s:%s", oneTimeApprovalOp, txnUuid)

	return s.runIdempotent(ctx, identity, func(ctx context.Context) (*response_models.TransactionApprovalResult, error) {
		txn, err := s.txns.GetByUuid(ctx, txnUuid)
		if err != nil {
			return nil, err
		}
		if txn == nil {
			return nil, utils.ErrNotFoundTransaction
		}
		if txn.Status == db_models.TxnStatusCanceled {
			return nil, utils.ErrAlreadyCancelledTransaction
		}
		if txn.Status == db_models.TxnStatusApproved {
			// committed earlier but the cached result was lost; re-derive it
			// from the row instead of charging again
			return approvalResult(txn), nil
		}

		method, err := s.methods.GetByID(ctx, txn.PaymentMethodID.String())
		if err != nil {
			return nil, err
		}
		if method == nil {
			return nil, utils.ErrNotFoundPaymentMethod
		}

		handler, err := s.registry.Get(method.Provider)
		if err != nil {
			return nil, err
		}

		return s.approveAndPersist(ctx, txn, handler, method.BillKey, buyer)
	})
}

func (s *ApprovalService) PayBillingSubscription(ctx context.Context, cmd BillingPaymentCommand) (*response_models.TransactionApprovalResult, error) {
	identity := fmt.Sprintf("%s:%s:%s", billingApprovalOp, cmd.SubscriptionID, cmd.InvoiceID)

	return s.runIdempotent(ctx, identity, func(ctx context.Context) (*response_models.TransactionApprovalResult, error) {
		sub, err := s.subs.GetByID(ctx, cmd.SubscriptionID)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, utils.ErrNotFoundSubscription
		}
		if !sub.Active() {
			return nil, utils.ErrUnsubscribed
		}
		if cmd.Amount != sub.Amount {
			return nil, utils.NewTransactionApprovalError("AMOUNT_MISMATCH",
				fmt.Sprintf("invoice amount %d does not match subscribed amount %d", cmd.Amount, sub.Amount))
		}

		method, err := s.methods.GetByID(ctx, sub.PaymentMethodID.String())
		if err != nil {
			return nil, err
		}
		if method == nil {
			return nil, utils.ErrNotFoundPaymentMethod
		}

		handler, err := s.registry.Get(method.Provider)
		if err != nil {
			return nil, err
		}

		// a failed earlier attempt (transport error, gateway decline) leaves its
		// RESERVED row behind; the partner tx id is unique per partner, so a
		// retry must reuse that row rather than insert a second one
		txn, err := s.txns.GetByPartnerTx(ctx, sub.PartnerID.String(), cmd.PartnerTxID)
		if err != nil {
			return nil, err
		}
		if txn != nil {
			switch txn.Status {
			case db_models.TxnStatusApproved:
				return approvalResult(txn), nil
			case db_models.TxnStatusCanceled:
				return nil, utils.ErrAlreadyCancelledTransaction
			}
		} else {
			subID := sub.ID
			txn = &db_models.Transaction{
				Uuid:            uuid.NewString(),
				AccountID:       sub.AccountID,
				PaymentMethodID: sub.PaymentMethodID,
				SubscriptionID:  &subID,
				PartnerID:       sub.PartnerID,
				PartnerTxID:     cmd.PartnerTxID,
				ProductName:     sub.ProductName,
				Amount:          sub.Amount,
				Status:          db_models.TxnStatusReserved,
				CreatedAt:       utils.NowUnixSeconds(),
			}
			if err := s.txns.Create(ctx, txn); err != nil {
				return nil, err
			}
		}

		return s.approveAndPersist(ctx, txn, handler, method.BillKey, cmd.Buyer)
	})
}

// runIdempotent guarantees that, for one idempotency identity, at most one
// body execution is ever in flight system-wide. Other callers get the cached
// result of a completed run, or ErrDuplicatedRequest while one is in flight.
// The lock is never waited on; acquisition is a single atomic operation.
func (s *ApprovalService) runIdempotent(
	ctx context.Context,
	identity string,
	body func(ctx context.Context) (*response_models.TransactionApprovalResult, error),
) (*response_models.TransactionApprovalResult, error) {
	key := idempotencyKey(identity)

	if !s.locks.SetFieldIfAbsent(key, idemLockField, "1") {
		if raw, ok := s.locks.GetField(key, idemResultField); ok {
			var cached response_models.TransactionApprovalResult
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				s.logger.Info("approval replayed from cache", zap.String("transaction_uuid", cached.TransactionID))
				return &cached, nil
			}
		}
		return nil, utils.ErrDuplicatedRequest
	}
	// TTL is the safety net for a worker dying mid-execution with the lock held
	s.locks.Expire(key, s.cfg.IdempotencyTTL)

	result, err := body(ctx)
	if err != nil {
		// release so a legitimate retry is not blocked until TTL expiry
		s.locks.DeleteField(key, idemLockField)
		return nil, err
	}

	if raw, marshalErr := json.Marshal(result); marshalErr == nil {
		s.locks.SetField(key, idemResultField, string(raw))
	} else {
		// a held lock with no cached result would block every later caller; the
		// bodies re-derive the result from the approved row instead
		s.locks.DeleteField(key, idemLockField)
		s.logger.Error("failed to cache approval result", zap.Error(marshalErr))
	}
	s.locks.Set(transactionIdempotencyKey(result.TransactionID), key, s.cfg.IdempotencyTTL)

	return result, nil
}

// approveAndPersist is the shared approve-then-persist-then-compensate
// protocol. The gateway is charged first so that a local-only failure can
// always be undone by a compensating cancellation; the reverse order would
// leave nothing to compensate with.
func (s *ApprovalService) approveAndPersist(
	ctx context.Context,
	txn *db_models.Transaction,
	handler gateway.Handler,
	gatewayKey string,
	buyer gateway.Buyer,
) (*response_models.TransactionApprovalResult, error) {
	resp, err := handler.ApproveTransaction(ctx, gateway.ApprovalRequest{
		TransactionUuid: txn.Uuid,
		PartnerTxID:     txn.PartnerTxID,
		ProductName:     txn.ProductName,
		Amount:          txn.Amount,
		GatewayKey:      gatewayKey,
		Buyer:           buyer,
	})
	if err != nil {
		// transport failure: nothing was charged that we know of, nothing to
		// compensate; the released lock lets the client retry
		return nil, err
	}

	if !resp.Success {
		history := historyRecord(txn.ID, db_models.HistoryActionApprove, false, resp.ResponseCode, resp.ResponseMessage, resp.Payload)
		if histErr := s.histories.Append(ctx, history); histErr != nil {
			s.logger.Error("failed to record declined approval", zap.Error(histErr), zap.String("transaction_uuid", txn.Uuid))
		}
		return nil, utils.NewTransactionApprovalError(resp.ResponseCode, resp.ResponseMessage)
	}

	approvedAt := resp.ApprovedAt
	if approvedAt.IsZero() {
		approvedAt = time.Now()
	}

	prevProvider := txn.Provider
	commitErr := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := txn.Approve(resp.ProviderTxID, approvedAt); err != nil {
			return err
		}
		txn.Provider = handler.Name()
		if err := s.txns.SaveInTx(ctx, tx, txn); err != nil {
			return err
		}
		history := historyRecord(txn.ID, db_models.HistoryActionApprove, true, resp.ResponseCode, resp.ResponseMessage, resp.Payload)
		return s.histories.AppendInTx(ctx, tx, history)
	})
	if commitErr == nil {
		s.logger.Info("transaction approved",
			zap.String("transaction_uuid", txn.Uuid),
			zap.String("provider", txn.Provider),
			zap.String("provider_tx_id", txn.ProviderTxID),
			zap.Int64("amount", txn.Amount),
		)
		return approvalResult(txn), nil
	}

	// the local unit of work rolled back; the in-memory entity follows
	txn.RevertApproval()
	txn.Provider = prevProvider

	cancelResp, cancelErr := handler.CancelTransaction(ctx, resp.ProviderTxID, s.cfg.CompensationReason)
	if cancelErr == nil && cancelResp.Success {
		s.logger.Error("approval commit failed, gateway charge reversed",
			zap.Error(commitErr),
			zap.String("transaction_uuid", txn.Uuid),
			zap.String("provider_tx_id", resp.ProviderTxID),
		)
		// the caller sees the true cause; the money came back
		return nil, commitErr
	}

	fail := &utils.CompensationFailureError{
		TransactionUuid: txn.Uuid,
		PartnerTxID:     txn.PartnerTxID,
		ProviderTxID:    resp.ProviderTxID,
	}
	if cancelErr != nil {
		fail.Code = "TRANSPORT"
		fail.Message = cancelErr.Error()
	} else {
		fail.Code = cancelResp.ResponseCode
		fail.Message = cancelResp.ResponseMessage
	}

	s.alerts.NotifyReconciliationRequired(ctx, AlertFromCompensationFailure(fail, txn.Amount))

	return nil, fail
}

func historyRecord(txnID uint, action db_models.HistoryAction, success bool, code, message string, payload []byte) *db_models.TransactionHistory {
	history := &db_models.TransactionHistory{
		TransactionID:   txnID,
		Action:          action,
		Success:         success,
		ResponseCode:    code,
		ResponseMessage: message,
	}
	if len(payload) > 0 && json.Valid(payload) {
		history.Payload = datatypes.JSON(payload)
	}
	return history
}

func approvalResult(txn *db_models.Transaction) *response_models.TransactionApprovalResult {
	result := &response_models.TransactionApprovalResult{
		TransactionID: txn.Uuid,
		PartnerTxID:   txn.PartnerTxID,
		ProductName:   txn.ProductName,
		Amount:        txn.Amount,
		ReservedAt:    utils.FormatUnixRFC3339(txn.CreatedAt),
	}
	if txn.ApprovedAt != nil {
		result.ApprovedAt = utils.FormatUnixRFC3339(*txn.ApprovedAt)
	}
	return result
}
