package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps domain errors onto HTTP responses. Callers can branch
// on the error kind without string-matching messages.
func HandleServiceError(c *gin.Context, err error) {
	var approvalErr *TransactionApprovalError
	var cancellationErr *TransactionCancellationError
	var cardErr *CardRegistrationError
	var compensationErr *CompensationFailureError

	switch {
	case errors.Is(err, ErrNotFoundTransaction),
		errors.Is(err, ErrNotFoundSubscription),
		errors.Is(err, ErrNotFoundPaymentMethod),
		errors.Is(err, ErrNotReservedTransaction):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNonTransactionOwner):
		RespondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrDuplicatedRequest):
		// another attempt is in flight; the client should back off and retry
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrAlreadyCancelledTransaction),
		errors.Is(err, ErrUnsubscribed),
		errors.Is(err, ErrNotApprovedTransaction),
		errors.Is(err, ErrIllegalStateTransition):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrUnknownProvider),
		errors.Is(err, ErrInvalidReservation):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &compensationErr):
		// already escalated by the service; the caller still gets an error
		RespondError(c, http.StatusInternalServerError, compensationErr.Error())
	case errors.As(err, &approvalErr):
		RespondError(c, http.StatusUnprocessableEntity, approvalErr.Error())
	case errors.As(err, &cancellationErr):
		RespondError(c, http.StatusUnprocessableEntity, cancellationErr.Error())
	case errors.As(err, &cardErr):
		RespondError(c, http.StatusUnprocessableEntity, cardErr.Error())
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
