package db_models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"payhub/pkg/utils"
)

type TransactionStatus string

const (
	TxnStatusReserved TransactionStatus = "RESERVED"
	TxnStatusApproved TransactionStatus = "APPROVED"
	TxnStatusCanceled TransactionStatus = "CANCELED"
)

// Transaction is one purchase attempt. The numeric primary key never leaves the
// service; Uuid is the external identity.
type Transaction struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Uuid      string    `gorm:"size:36;uniqueIndex;not null"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`

	PaymentMethodID uuid.UUID  `gorm:"type:uuid;index;not null"`
	SubscriptionID  *uuid.UUID `gorm:"type:uuid;index"` // set for billing charges only
	PartnerID       uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_partner_tx,priority:1;not null"`

	// PartnerTxID is the partner's own transaction id, their idempotency key.
	PartnerTxID string `gorm:"size:128;uniqueIndex:idx_partner_tx,priority:2;not null"`

	// Provider is empty until approval chooses a gateway.
	Provider string `gorm:"size:32;index"`
	// ProviderTxID is the gateway-assigned transaction id, set on approval.
	ProviderTxID string `gorm:"size:128;index"`

	ProductName string            `gorm:"size:256;not null"`
	Amount      int64             `gorm:"not null"` // minor currency units, > 0
	Status      TransactionStatus `gorm:"size:16;index;not null"`

	CreatedAt  int64 `gorm:"autoCreateTime"`
	ApprovedAt *int64
	CanceledAt *int64
}

// Approve moves RESERVED -> APPROVED, recording the gateway transaction id and
// approval time. Any other starting state is illegal.
func (t *Transaction) Approve(providerTxID string, at time.Time) error {
	if t.Status != TxnStatusReserved {
		return fmt.Errorf("%w: cannot approve a %s transaction", utils.ErrIllegalStateTransition, t.Status)
	}
	t.Status = TxnStatusApproved
	t.ProviderTxID = providerTxID
	approvedAt := at.Unix()
	t.ApprovedAt = &approvedAt
	return nil
}

// RevertApproval undoes an in-memory Approve after the surrounding unit of work
// rolled back. It must never be called on a committed transaction.
func (t *Transaction) RevertApproval() {
	t.Status = TxnStatusReserved
	t.ProviderTxID = ""
	t.ApprovedAt = nil
}

// Cancel moves APPROVED -> CANCELED. A reservation that was never approved has
// nothing to void and simply expires, so RESERVED -> CANCELED is illegal too.
func (t *Transaction) Cancel(at time.Time) error {
	switch t.Status {
	case TxnStatusCanceled:
		return utils.ErrAlreadyCancelledTransaction
	case TxnStatusReserved:
		return fmt.Errorf("%w: cannot cancel a %s transaction", utils.ErrIllegalStateTransition, t.Status)
	}
	t.Status = TxnStatusCanceled
	canceledAt := at.Unix()
	t.CanceledAt = &canceledAt
	return nil
}
