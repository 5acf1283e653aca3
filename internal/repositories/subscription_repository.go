package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"payhub/internal/models/db_models"
)

type ISubscriptionRepository interface {
	Create(ctx context.Context, sub *db_models.Subscription) error
	GetByID(ctx context.Context, id string) (*db_models.Subscription, error)
	Save(ctx context.Context, sub *db_models.Subscription) error
}

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) ISubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *db_models.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

func (r *SubscriptionRepository) Save(ctx context.Context, sub *db_models.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}
