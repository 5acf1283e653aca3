package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"payhub/internal/models/db_models"
)

type IPaymentMethodRepository interface {
	Create(ctx context.Context, method *db_models.PaymentMethod) error
	GetByID(ctx context.Context, id string) (*db_models.PaymentMethod, error)
	ListByAccountID(ctx context.Context, accountID string) ([]db_models.PaymentMethod, error)
}

type PaymentMethodRepository struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) IPaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

func (r *PaymentMethodRepository) Create(ctx context.Context, method *db_models.PaymentMethod) error {
	return r.db.WithContext(ctx).Create(method).Error
}

func (r *PaymentMethodRepository) GetByID(ctx context.Context, id string) (*db_models.PaymentMethod, error) {
	var method db_models.PaymentMethod
	err := r.db.WithContext(ctx).First(&method, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &method, nil
}

func (r *PaymentMethodRepository) ListByAccountID(ctx context.Context, accountID string) ([]db_models.PaymentMethod, error) {
	var methods []db_models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&methods).Error

	if err != nil {
		return nil, err
	}

	return methods, nil
}
