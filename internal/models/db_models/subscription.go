package db_models

import "github.com/google/uuid"

// Subscription is a recurring-charge agreement: the billing analogue of a
// reservation. Each periodic invoice creates a new Transaction against its
// payment method and amount.
type Subscription struct {
	BaseModel
	AccountID       uuid.UUID `gorm:"type:uuid;index;not null"`
	PaymentMethodID uuid.UUID `gorm:"type:uuid;index;not null"`
	PartnerID       uuid.UUID `gorm:"type:uuid;index;not null"`

	ProductName string `gorm:"size:256;not null"`
	Amount      int64  `gorm:"not null"`

	SubscribedAt   int64 `gorm:"not null"`
	UnsubscribedAt *int64
}

func (s *Subscription) Active() bool {
	return s.UnsubscribedAt == nil
}
