package db_models

import "gorm.io/datatypes"

type HistoryAction string

const (
	HistoryActionApprove HistoryAction = "APPROVE"
	HistoryActionCancel  HistoryAction = "CANCEL"
)

// TransactionHistory is the append-only audit trail of every approve/cancel
// attempt, successful or not. Rows are never updated; the gateway's raw
// response payload is kept so a failure can be reconstructed later regardless
// of what the Transaction looks like now.
type TransactionHistory struct {
	ID            uint          `gorm:"primaryKey;autoIncrement"`
	TransactionID uint          `gorm:"index;not null"`
	Action        HistoryAction `gorm:"size:16;not null"`
	Success       bool          `gorm:"not null"`

	ResponseCode    string `gorm:"size:32"`
	ResponseMessage string `gorm:"size:512"`

	Payload datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	CreatedAt int64 `gorm:"autoCreateTime"`
}
