package authbreaker

import "errors"

var (
	// ErrCircuitOpen indicates the identifier's consecutive-failure count
	// exceeds the configured threshold.
	ErrCircuitOpen = errors.New("circuit open")
	// ErrRateLimited indicates the identifier exhausted its request budget
	// for the current window.
	ErrRateLimited = errors.New("request rate limited")
	// ErrStoreUnavailable indicates the backing store cannot be reached.
	ErrStoreUnavailable = errors.New("breaker store unavailable")
	// ErrBreakerNotReady indicates a Breaker method was called on a nil or
	// unbuilt instance.
	ErrBreakerNotReady = errors.New("breaker not initialized")
)
