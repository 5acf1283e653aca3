package services

import (
	"os"
	"strconv"
	"time"
)

// PaymentConfig collects the knobs the original operators tuned as literals:
// the minimum payable amount and the cancellation reasons sent to gateways are
// configuration, not business rules buried in code.
type PaymentConfig struct {
	MinAmount          int64
	CancelReason       string // customer-initiated cancellation
	CompensationReason string // reversal after a local approval failure

	ReservationTTL time.Duration
	IdempotencyTTL time.Duration
}

func LoadPaymentConfig() PaymentConfig {
	return PaymentConfig{
		MinAmount:          envInt64("PAYMENT_MIN_AMOUNT", 100),
		CancelReason:       envString("PAYMENT_CANCEL_REASON", "customer requested cancellation"),
		CompensationReason: envString("PAYMENT_COMPENSATION_REASON", "internal approval failure"),
		ReservationTTL:     envDuration("PAYMENT_RESERVATION_TTL", time.Hour),
		IdempotencyTTL:     envDuration("PAYMENT_IDEMPOTENCY_TTL", 24*time.Hour),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
