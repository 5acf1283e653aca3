package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"payhub/internal/models/db_models"
)

type ITransactionRepository interface {
	Create(ctx context.Context, txn *db_models.Transaction) error
	GetByUuid(ctx context.Context, uuid string) (*db_models.Transaction, error)
	GetByPartnerTx(ctx context.Context, partnerID string, partnerTxID string) (*db_models.Transaction, error)
	SaveInTx(ctx context.Context, tx *gorm.DB, txn *db_models.Transaction) error
}

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) ITransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *db_models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *TransactionRepository) GetByUuid(ctx context.Context, uuid string) (*db_models.Transaction, error) {
	var txn db_models.Transaction
	err := r.db.WithContext(ctx).First(&txn, "uuid = ?", uuid).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &txn, nil
}

func (r *TransactionRepository) GetByPartnerTx(ctx context.Context, partnerID string, partnerTxID string) (*db_models.Transaction, error) {
	var txn db_models.Transaction
	err := r.db.WithContext(ctx).
		Where("partner_id = ? AND partner_tx_id = ?", partnerID, partnerTxID).
		First(&txn).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &txn, nil
}

func (r *TransactionRepository) SaveInTx(ctx context.Context, tx *gorm.DB, txn *db_models.Transaction) error {
	return tx.WithContext(ctx).Save(txn).Error
}
