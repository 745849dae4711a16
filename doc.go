// Package authbreaker provides a store-backed login-failure circuit breaker
// for authentication services: per-identifier counters of consecutive failed
// attempts, a derived Open/Closed circuit state, and never-failing hook
// adapters that observe authentication outcomes without ever affecting them.
//
// The package is designed for concurrent server workloads: Breaker methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build]. Cross-process coordination happens entirely through the
// injected [store.Store]; the breaker holds no in-process locks.
//
// # Architecture boundaries
//
// authbreaker is the public surface. It exposes [Breaker], [Builder],
// [Config], and value types (State, MetricsSnapshot, AuditEvent). Counter
// and throttle bookkeeping live under internal/ and are never exported; the
// store contract lives in the store sub-package so callers can substitute
// their own backend.
//
// # What this package must NOT do
//
//   - Alter the outcome of an authentication attempt. The hook adapters are
//     observational: store faults and missing identifiers are logged and
//     counted, never propagated.
//   - Block without bound. Every store round-trip runs under the configured
//     store timeout.
package authbreaker
