package middleware

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	authbreaker "github.com/agriconnect/authbreaker"
)

// Config tunes [Protect].
type Config struct {
	// ProtectedPrefixes limits enforcement to paths under these prefixes.
	// Empty means every request is protected.
	ProtectedPrefixes []string

	// Exempt paths bypass both checks even under a protected prefix.
	// Matched exactly.
	Exempt []string

	// IdentifierFunc extracts the client identifier from the request.
	// Defaults to [ClientIP].
	IdentifierFunc func(r *http.Request) string

	// RetryAfter is the value of the Retry-After header on 429 responses,
	// in seconds. Defaults to 60.
	RetryAfter int

	// CircuitRetryAfter is the Retry-After value on 503 responses, in
	// seconds. Defaults to 300, matching the failure window.
	CircuitRetryAfter int
}

type errorBody struct {
	Error      string `json:"error"`
	ErrorCode  string `json:"error_code"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// Protect wraps next with the request throttle and the circuit check, and
// reports 401 responses from next to the breaker as login failures.
func Protect(br *authbreaker.Breaker, cfg Config) func(http.Handler) http.Handler {
	identify := cfg.IdentifierFunc
	if identify == nil {
		identify = ClientIP
	}
	retryAfter := cfg.RetryAfter
	if retryAfter <= 0 {
		retryAfter = 60
	}
	circuitRetryAfter := cfg.CircuitRetryAfter
	if circuitRetryAfter <= 0 {
		circuitRetryAfter = 300
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !protected(r.URL.Path, cfg) {
				next.ServeHTTP(w, r)
				return
			}

			identifier := identify(r)
			ctx := authbreaker.WithClientIP(r.Context(), identifier)
			r = r.WithContext(ctx)

			if err := br.AllowRequest(ctx, identifier); err != nil {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeError(w, http.StatusTooManyRequests, errorBody{
					Error:      "too many requests, slow down",
					ErrorCode:  "RATE_LIMIT_EXCEEDED",
					RetryAfter: retryAfter,
				})
				return
			}

			if err := br.Allow(ctx, identifier); err != nil {
				if errors.Is(err, authbreaker.ErrCircuitOpen) {
					w.Header().Set("Retry-After", strconv.Itoa(circuitRetryAfter))
					writeError(w, http.StatusServiceUnavailable, errorBody{
						Error:      "service temporarily unavailable due to repeated failures",
						ErrorCode:  "CIRCUIT_BREAKER_OPEN",
						RetryAfter: circuitRetryAfter,
					})
					return
				}
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusUnauthorized {
				br.OnLoginFailed(ctx, identifier)
			}
		})
	}
}

func protected(path string, cfg Config) bool {
	for _, exempt := range cfg.Exempt {
		if path == exempt {
			return false
		}
	}
	if len(cfg.ProtectedPrefixes) == 0 {
		return true
	}
	for _, prefix := range cfg.ProtectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusRecorder captures the status code so the middleware can observe 401s
// without buffering the response body.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.wroteHeader = true
	}
	return r.ResponseWriter.Write(b)
}

// ClientIP extracts the client address: the first X-Forwarded-For entry when
// present, the RemoteAddr host otherwise, and loopback as a last resort.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "127.0.0.1"
}
