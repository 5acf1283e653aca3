package lockstore

import "time"

// Store is the shared key-value store the payment core coordinates through:
// reservation hand-off and idempotency locking both live here. The contract is
// intentionally shaped like Redis single-key commands (HSETNX/HGET/HSET/HDEL,
// SET/GET/DEL, EXPIRE) so a client-backed implementation can replace the
// in-process one without touching callers. No multi-key atomicity is assumed.
type Store interface {
	// SetFieldIfAbsent atomically creates field on key if it does not exist.
	// Returns true when this caller created the field.
	SetFieldIfAbsent(key, field, value string) bool

	GetField(key, field string) (string, bool)

	// SetField writes field on key, creating the key if needed. The key's
	// existing expiry is left untouched.
	SetField(key, field, value string)

	DeleteField(key, field string)

	Set(key, value string, ttl time.Duration)

	Get(key string) (string, bool)

	Delete(key string)

	// Expire sets the key's time-to-live. Returns false if the key is missing.
	Expire(key string, ttl time.Duration) bool
}
