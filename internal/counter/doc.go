// Package counter maintains the per-identifier consecutive-failure counter
// the circuit breaker derives its state from. Counters live in the shared
// expiring store with a fixed lifetime anchored at the first failure and are
// deleted, never decremented, on success.
package counter
