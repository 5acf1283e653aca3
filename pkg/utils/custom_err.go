package utils

import (
	"errors"
	"fmt"
)

var (
	ErrDatabaseError = errors.New("database error")

	// caller errors: not retried
	ErrNotFoundTransaction         = errors.New("transaction not found")
	ErrNotFoundSubscription        = errors.New("subscription not found")
	ErrNotFoundPaymentMethod       = errors.New("payment method not found")
	ErrAlreadyCancelledTransaction = errors.New("transaction is already canceled")
	ErrNotReservedTransaction      = errors.New("transaction is not reserved")
	ErrNotApprovedTransaction      = errors.New("transaction is not approved")
	ErrNonTransactionOwner         = errors.New("requester is not the transaction owner")
	ErrUnsubscribed                = errors.New("subscription is no longer active")
	ErrIllegalStateTransition      = errors.New("illegal transaction state transition")
	ErrUnknownProvider             = errors.New("unknown payment gateway provider")
	ErrInvalidReservation          = errors.New("invalid reservation parameters")

	// another attempt holds the lock for the same operation; back off and retry
	ErrDuplicatedRequest = errors.New("duplicated request is in flight")
)

// TransactionApprovalError is a business rejection surfaced during approval.
// Code/Message come from the gateway response when present.
type TransactionApprovalError struct {
	Code    string
	Message string
}

func NewTransactionApprovalError(code, message string) *TransactionApprovalError {
	return &TransactionApprovalError{Code: code, Message: message}
}

func (e *TransactionApprovalError) Error() string {
	return fmt.Sprintf("transaction approval failed [%s]: %s", e.Code, e.Message)
}

type TransactionCancellationError struct {
	Code    string
	Message string
}

func NewTransactionCancellationError(code, message string) *TransactionCancellationError {
	return &TransactionCancellationError{Code: code, Message: message}
}

func (e *TransactionCancellationError) Error() string {
	return fmt.Sprintf("transaction cancellation failed [%s]: %s", e.Code, e.Message)
}

type CardRegistrationError struct {
	Code    string
	Message string
}

func NewCardRegistrationError(code, message string) *CardRegistrationError {
	return &CardRegistrationError{Code: code, Message: message}
}

func (e *CardRegistrationError) Error() string {
	return fmt.Sprintf("card registration failed [%s]: %s", e.Code, e.Message)
}

// CompensationFailureError means the gateway charged, the local commit failed,
// and the compensating cancellation also failed. The charge is recorded nowhere
// locally; an operator has to reconcile it by hand.
type CompensationFailureError struct {
	TransactionUuid string
	PartnerTxID     string
	ProviderTxID    string
	Code            string
	Message         string
}

func (e *CompensationFailureError) Error() string {
	return fmt.Sprintf(
		"compensation failed for transaction %s (partner_tx_id=%s, provider_tx_id=%s) [%s]: %s",
		e.TransactionUuid, e.PartnerTxID, e.ProviderTxID, e.Code, e.Message,
	)
}
