// Package throttle enforces a per-identifier fixed-window request budget in
// front of the circuit breaker, so a misbehaving client burns its budget
// before it can even accumulate authentication failures.
package throttle
