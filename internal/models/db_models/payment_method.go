package db_models

import "github.com/google/uuid"

// PaymentMethod is a stored instrument. BillKey is the gateway-issued token
// standing in for the card credentials; card data itself is never stored.
type PaymentMethod struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`

	Provider string `gorm:"size:32;index;not null"`
	BillKey  string `gorm:"size:128;not null"`

	CardAlias  string `gorm:"size:64"` // e.g. masked number for display
	IssuerCode string `gorm:"size:16"`
}
