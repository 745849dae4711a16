package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable indicates the backing store cannot be reached. Callers
	// treat it as non-fatal: the breaker is observational and must never
	// block the authentication flow on store faults.
	ErrUnavailable = errors.New("store unavailable")
)

// Store is the minimal expiring key-value contract the breaker requires.
// Implementations must provide single-key atomicity for Increment; no
// cross-key transactions are assumed.
type Store interface {
	// IncrementWithTTL atomically increments the counter at key, creating it
	// with value 1 and the given lifetime if absent, and returns the new
	// value. The lifetime is anchored at the first increment and is not
	// extended by subsequent ones.
	IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Get returns the current counter value, or 0 if the key is absent or
	// expired.
	Get(ctx context.Context, key string) (int64, error)

	// Delete removes the given keys. Deleting absent keys is a no-op.
	Delete(ctx context.Context, keys ...string) error
}
