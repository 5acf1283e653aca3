package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"payhub/internal/gateway"
	"payhub/internal/models/db_models"
	"payhub/internal/models/response_models"
	"payhub/internal/repositories"
	"payhub/pkg/utils"
)

type TransactionServiceInterface interface {
	// CreateTransaction turns a held reservation into a durable RESERVED
	// transaction. Re-creating from the same reservation returns the existing
	// record instead of a second one.
	CreateTransaction(ctx context.Context, ownerID string, reservationID string) (*response_models.TransactionResponse, error)

	GetTransaction(ctx context.Context, ownerID string, txnUuid string) (*response_models.TransactionResponse, error)

	GetReceiptURL(ctx context.Context, ownerID string, txnUuid string) (string, error)
}

type TransactionService struct {
	reservations ReservationServiceInterface
	txns         repositories.ITransactionRepository
	registry     *gateway.Registry
	logger       *zap.Logger
}

func NewTransactionService(
	reservations ReservationServiceInterface,
	txns repositories.ITransactionRepository,
	registry *gateway.Registry,
	logger *zap.Logger,
) TransactionServiceInterface {
	return &TransactionService{
		reservations: reservations,
		txns:         txns,
		registry:     registry,
		logger:       logger,
	}
}

func (s *TransactionService) CreateTransaction(ctx context.Context, ownerID string, reservationID string) (*response_models.TransactionResponse, error) {
	params, err := s.reservations.Consume(ctx, reservationID, ownerID)
	if err != nil {
		return nil, err
	}

	// a duplicate create call observes the reservation again; the durable row
	// stays single
	existing, err := s.txns.GetByPartnerTx(ctx, params.PartnerID, params.PartnerTxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return transactionResponse(existing), nil
	}

	accountID, err := uuid.Parse(params.OwnerID)
	if err != nil {
		return nil, err
	}
	paymentMethodID, err := uuid.Parse(params.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	partnerID, err := uuid.Parse(params.PartnerID)
	if err != nil {
		return nil, err
	}

	txn := &db_models.Transaction{
		Uuid:            uuid.NewString(),
		AccountID:       accountID,
		PaymentMethodID: paymentMethodID,
		PartnerID:       partnerID,
		PartnerTxID:     params.PartnerTxID,
		ProductName:     params.ProductName,
		Amount:          params.Amount,
		Status:          db_models.TxnStatusReserved,
		CreatedAt:       params.ReservedAt,
	}

	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, err
	}

	s.logger.Info("transaction created",
		zap.String("transaction_uuid", txn.Uuid),
		zap.String("partner_tx_id", txn.PartnerTxID),
	)

	return transactionResponse(txn), nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, ownerID string, txnUuid string) (*response_models.TransactionResponse, error) {
	txn, err := s.loadOwned(ctx, ownerID, txnUuid)
	if err != nil {
		return nil, err
	}
	return transactionResponse(txn), nil
}

func (s *TransactionService) GetReceiptURL(ctx context.Context, ownerID string, txnUuid string) (string, error) {
	txn, err := s.loadOwned(ctx, ownerID, txnUuid)
	if err != nil {
		return "", err
	}
	if txn.ProviderTxID == "" {
		return "", utils.ErrNotApprovedTransaction
	}

	handler, err := s.registry.Get(txn.Provider)
	if err != nil {
		return "", err
	}

	return handler.CardReceiptURL(txn.ProviderTxID), nil
}

func (s *TransactionService) loadOwned(ctx context.Context, ownerID string, txnUuid string) (*db_models.Transaction, error) {
	txn, err := s.txns.GetByUuid(ctx, txnUuid)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, utils.ErrNotFoundTransaction
	}
	if txn.AccountID.String() != ownerID {
		return nil, utils.ErrNonTransactionOwner
	}
	return txn, nil
}

func transactionResponse(txn *db_models.Transaction) *response_models.TransactionResponse {
	resp := &response_models.TransactionResponse{
		TransactionID: txn.Uuid,
		PartnerTxID:   txn.PartnerTxID,
		ProductName:   txn.ProductName,
		Amount:        txn.Amount,
		Status:        string(txn.Status),
		ReservedAt:    utils.FormatUnixRFC3339(txn.CreatedAt),
	}
	if txn.ApprovedAt != nil {
		resp.ApprovedAt = utils.FormatUnixRFC3339(*txn.ApprovedAt)
	}
	if txn.CanceledAt != nil {
		resp.CanceledAt = utils.FormatUnixRFC3339(*txn.CanceledAt)
	}
	return resp
}
