package counter

import (
	"context"
	"time"

	"github.com/agriconnect/authbreaker/store"
)

// Config holds failure counter tuning parameters.
type Config struct {
	// WindowTTL is the counter lifetime measured from the first failure.
	// It is not extended by subsequent failures.
	WindowTTL time.Duration

	// KeyPrefix scopes counter keys in the shared store.
	KeyPrefix string

	// FlagKeyPrefix scopes the legacy circuit-flag keys cleared on success.
	FlagKeyPrefix string
}

// FailureCounter tracks consecutive authentication failures per identifier.
type FailureCounter struct {
	store  store.Store
	config Config
}

// New creates a failure counter on the given store.
func New(s store.Store, cfg Config) *FailureCounter {
	return &FailureCounter{store: s, config: cfg}
}

func (c *FailureCounter) key(identifier string) string {
	return c.config.KeyPrefix + identifier
}

func (c *FailureCounter) flagKey(identifier string) string {
	return c.config.FlagKeyPrefix + identifier
}

// RecordFailure increments the counter for identifier, creating it with
// value 1 and the window TTL when absent, and returns the new count.
func (c *FailureCounter) RecordFailure(ctx context.Context, identifier string) (int64, error) {
	return c.store.IncrementWithTTL(ctx, c.key(identifier), c.config.WindowTTL)
}

// RecordSuccess deletes the failure counter and any circuit-flag entry for
// identifier. Deleting absent keys is a no-op, so the call is idempotent.
//
// State is derived from the counter here, but deployments that share a store
// with flag-writing protection layers converge by clearing the flag too.
func (c *FailureCounter) RecordSuccess(ctx context.Context, identifier string) error {
	return c.store.Delete(ctx, c.key(identifier), c.flagKey(identifier))
}

// Count returns the current consecutive-failure count, or 0 when no counter
// exists or the window has expired.
func (c *FailureCounter) Count(ctx context.Context, identifier string) (int64, error) {
	return c.store.Get(ctx, c.key(identifier))
}
