// Package middleware exposes HTTP middleware that puts the login-failure
// circuit breaker in front of protected dashboard routes.
//
// # Protection layers
//
// [Protect] applies two checks, in order, before the wrapped handler runs:
//
//  1. Request throttle — per-client request budget per window (429).
//  2. Circuit check — rejects clients whose consecutive authentication
//     failures exceeded the threshold (503).
//
// After the handler runs, a 401 response is reported to the breaker as a
// login failure, so protected routes feed the counter without any change to
// the handlers themselves.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Breaker calls. It does NOT
// implement counting or state logic itself — all decisions are delegated to
// the breaker.
//
// # What this package must NOT do
//
//   - Access the store directly (the breaker handles I/O).
//   - Persist or derive circuit state on its own.
//   - Block or fail requests when the store is unavailable.
package middleware
