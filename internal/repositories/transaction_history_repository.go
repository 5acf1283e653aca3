package repositories

import (
	"context"

	"gorm.io/gorm"

	"payhub/internal/models/db_models"
)

type ITransactionHistoryRepository interface {
	// Append records an attempt outside any unit of work, e.g. a gateway
	// rejection that mutates no local state.
	Append(ctx context.Context, history *db_models.TransactionHistory) error

	// AppendInTx records an attempt inside the caller's unit of work so the
	// history row commits or rolls back together with the transaction row.
	AppendInTx(ctx context.Context, tx *gorm.DB, history *db_models.TransactionHistory) error

	ListByTransactionID(ctx context.Context, transactionID uint) ([]db_models.TransactionHistory, error)
}

type TransactionHistoryRepository struct {
	db *gorm.DB
}

func NewTransactionHistoryRepository(db *gorm.DB) ITransactionHistoryRepository {
	return &TransactionHistoryRepository{db: db}
}

func (r *TransactionHistoryRepository) Append(ctx context.Context, history *db_models.TransactionHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *TransactionHistoryRepository) AppendInTx(ctx context.Context, tx *gorm.DB, history *db_models.TransactionHistory) error {
	return tx.WithContext(ctx).Create(history).Error
}

func (r *TransactionHistoryRepository) ListByTransactionID(ctx context.Context, transactionID uint) ([]db_models.TransactionHistory, error) {
	var histories []db_models.TransactionHistory
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("id ASC").
		Find(&histories).Error

	if err != nil {
		return nil, err
	}

	return histories, nil
}
