package repositories

import (
	"context"

	"gorm.io/gorm"
)

// TxManager is the unit-of-work boundary. fn runs inside one database
// transaction; returning an error rolls everything back.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) TxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
