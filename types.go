package authbreaker

import (
	"context"
	"io"

	internalaudit "github.com/agriconnect/authbreaker/internal/audit"
)

// State is the derived circuit state for one identifier. It is a pure
// function of the consecutive-failure count and the configured threshold;
// nothing persists it separately.
type State uint8

const (
	// StateClosed is the normal state: count at or below threshold, or no
	// counter present at all.
	StateClosed State = iota
	// StateOpen means the identifier's count exceeds the threshold.
	StateOpen
)

// String implements fmt.Stringer for log and audit output.
func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// AuthEventDispatcher is implemented by the caller's authentication event
// source. [Breaker.Register] subscribes the breaker's two hooks on it; the
// breaker keeps no registry of its own.
type AuthEventDispatcher interface {
	SubscribeLoginFailed(fn func(ctx context.Context, identifier string))
	SubscribeLoginSucceeded(fn func(ctx context.Context, identifier string))
}

// Audit event type names, re-exported for sink implementations.
const (
	AuditCircuitOpened = internalaudit.EventCircuitOpened
	AuditCounterReset  = internalaudit.EventCounterReset
)

// AuditEvent is a structured audit record emitted by the breaker.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the breaker's audit
// dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
