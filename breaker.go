package authbreaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agriconnect/authbreaker/internal/audit"
	"github.com/agriconnect/authbreaker/internal/counter"
	"github.com/agriconnect/authbreaker/internal/throttle"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UnknownIdentifier is the sentinel used when an authentication event
// carries no usable client identifier.
const UnknownIdentifier = "unknown"

// Breaker is the login-failure circuit breaker. Construct it through
// [Builder.Build]; the zero value is not usable.
//
// All methods are safe for concurrent use. The enforcing entry points
// (RecordFailure, Allow, ...) surface store faults as errors; the hook
// adapters (OnLoginFailed, OnLoginSucceeded) never do.
type Breaker struct {
	config   Config
	counters *counter.FailureCounter
	throttle *throttle.Limiter
	aud      *auditDispatcher
	metrics  *Metrics
	log      *zap.Logger
}

// RecordFailure increments the consecutive-failure counter for identifier
// and returns the new count. Crossing the threshold is reported exactly
// once: the call that first observes count == Threshold+1 logs a warning
// and emits the circuit_opened audit event with a fresh incident id.
func (b *Breaker) RecordFailure(ctx context.Context, identifier string) (int64, error) {
	if b == nil {
		return 0, ErrBreakerNotReady
	}

	opCtx, cancel := b.storeContext(ctx)
	defer cancel()

	start := time.Now()
	count, err := b.counters.RecordFailure(opCtx, identifier)
	b.metrics.Observe(MetricRecordLatency, time.Since(start))
	if err != nil {
		b.metrics.Inc(MetricStoreUnavailable)
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	b.metrics.Inc(MetricFailureRecorded)

	if count == int64(b.config.Breaker.Threshold)+1 {
		b.circuitOpened(ctx, identifier, count)
	}

	return count, nil
}

// RecordSuccess clears the failure counter for identifier. Idempotent;
// a success for an identifier with no failures is a no-op.
func (b *Breaker) RecordSuccess(ctx context.Context, identifier string) error {
	if b == nil {
		return ErrBreakerNotReady
	}

	opCtx, cancel := b.storeContext(ctx)
	defer cancel()

	if err := b.counters.RecordSuccess(opCtx, identifier); err != nil {
		b.metrics.Inc(MetricStoreUnavailable)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	b.metrics.Inc(MetricSuccessReset)
	b.log.Info("failure counter reset",
		zap.String("identifier", identifier),
	)
	b.aud.Emit(ctx, AuditEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  audit.EventCounterReset,
		Identifier: identifier,
	})

	return nil
}

// FailureCount returns the current consecutive-failure count for
// identifier, or 0 when absent or expired. Pure read.
func (b *Breaker) FailureCount(ctx context.Context, identifier string) (int64, error) {
	if b == nil {
		return 0, ErrBreakerNotReady
	}

	opCtx, cancel := b.storeContext(ctx)
	defer cancel()

	count, err := b.counters.Count(opCtx, identifier)
	if err != nil {
		b.metrics.Inc(MetricStoreUnavailable)
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return count, nil
}

// State derives the circuit state for identifier from the current count.
func (b *Breaker) State(ctx context.Context, identifier string) (State, error) {
	count, err := b.FailureCount(ctx, identifier)
	if err != nil {
		return StateClosed, err
	}
	return b.stateFor(count), nil
}

// Allow reports whether requests from identifier should pass. Returns
// ErrCircuitOpen while the circuit is open. Store faults fail open: the
// breaker is a protection layer, not a correctness gate.
func (b *Breaker) Allow(ctx context.Context, identifier string) error {
	if b == nil {
		return ErrBreakerNotReady
	}

	count, err := b.FailureCount(ctx, identifier)
	if err != nil {
		b.log.Warn("circuit check skipped, store unavailable",
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		return nil
	}

	if b.stateFor(count) == StateOpen {
		b.metrics.Inc(MetricCircuitRejected)
		return ErrCircuitOpen
	}
	return nil
}

// AllowRequest enforces the per-identifier request budget. Returns
// ErrRateLimited once the window budget is exhausted. Disabled throttle
// and store faults both fail open.
func (b *Breaker) AllowRequest(ctx context.Context, identifier string) error {
	if b == nil {
		return ErrBreakerNotReady
	}
	if b.throttle == nil {
		return nil
	}

	opCtx, cancel := b.storeContext(ctx)
	defer cancel()

	err := b.throttle.Allow(opCtx, identifier)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, throttle.ErrLimited):
		b.metrics.Inc(MetricThrottleHit)
		b.log.Warn("request budget exhausted",
			zap.String("identifier", identifier),
			zap.Int("max_requests", b.config.Throttle.MaxRequests),
		)
		return ErrRateLimited
	default:
		b.metrics.Inc(MetricStoreUnavailable)
		b.log.Warn("throttle check skipped, store unavailable",
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		return nil
	}
}

// OnLoginFailed is the hook adapter for failure notifications from the
// authentication subsystem. It never returns an error and never panics:
// identifier resolution falls back to the client IP from ctx and then the
// "unknown" sentinel, and store faults are logged and counted only.
func (b *Breaker) OnLoginFailed(ctx context.Context, identifier string) {
	if b == nil {
		return
	}
	defer b.recoverHook("login_failed")

	id := b.resolveIdentifier(ctx, identifier)
	if _, err := b.RecordFailure(ctx, id); err != nil {
		b.log.Warn("failure not recorded",
			zap.String("identifier", id),
			zap.Error(err),
		)
	}
}

// OnLoginSucceeded is the hook adapter for success notifications. Same
// never-fails contract as OnLoginFailed.
func (b *Breaker) OnLoginSucceeded(ctx context.Context, identifier string) {
	if b == nil {
		return
	}
	defer b.recoverHook("login_succeeded")

	id := b.resolveIdentifier(ctx, identifier)
	if err := b.RecordSuccess(ctx, id); err != nil {
		b.log.Warn("failure counter not reset",
			zap.String("identifier", id),
			zap.Error(err),
		)
	}
}

// Register subscribes the breaker's two hooks on the caller-owned
// dispatcher. The breaker keeps no subscription state of its own.
func (b *Breaker) Register(d AuthEventDispatcher) {
	if b == nil || d == nil {
		return
	}
	d.SubscribeLoginFailed(b.OnLoginFailed)
	d.SubscribeLoginSucceeded(b.OnLoginSucceeded)
}

// MetricsSnapshot returns a point-in-time copy of all metrics.
func (b *Breaker) MetricsSnapshot() MetricsSnapshot {
	if b == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return b.metrics.Snapshot()
}

// Metrics exposes the live metrics instance for Value reads.
func (b *Breaker) Metrics() *Metrics {
	if b == nil {
		return nil
	}
	return b.metrics
}

// AuditDropped returns the number of audit events dropped under
// backpressure.
func (b *Breaker) AuditDropped() uint64 {
	if b == nil {
		return 0
	}
	return b.aud.Dropped()
}

// Close drains and stops the audit dispatcher. The breaker must not be
// used after Close.
func (b *Breaker) Close() {
	if b == nil {
		return
	}
	b.aud.Close()
}

func (b *Breaker) circuitOpened(ctx context.Context, identifier string, count int64) {
	incidentID := uuid.NewString()

	b.metrics.Inc(MetricCircuitOpened)
	b.log.Warn("circuit opened",
		zap.String("identifier", identifier),
		zap.Int64("consecutive_failures", count),
		zap.Int("threshold", b.config.Breaker.Threshold),
		zap.String("incident_id", incidentID),
	)
	b.aud.Emit(ctx, AuditEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  audit.EventCircuitOpened,
		Identifier: identifier,
		IncidentID: incidentID,
		Count:      count,
	})
}

func (b *Breaker) stateFor(count int64) State {
	if count > int64(b.config.Breaker.Threshold) {
		return StateOpen
	}
	return StateClosed
}

func (b *Breaker) resolveIdentifier(ctx context.Context, identifier string) string {
	if identifier != "" {
		return identifier
	}
	if ip := clientIPFromContext(ctx); ip != "" {
		return ip
	}

	b.metrics.Inc(MetricIdentifierMissing)
	b.log.Debug("event without identifier, using sentinel")
	return UnknownIdentifier
}

func (b *Breaker) recoverHook(hook string) {
	if r := recover(); r != nil {
		b.log.Error("hook panic suppressed",
			zap.String("hook", hook),
			zap.Any("panic", r),
		)
	}
}

func (b *Breaker) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, b.config.Breaker.StoreTimeout)
}
