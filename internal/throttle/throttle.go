package throttle

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/agriconnect/authbreaker/store"
)

// ErrLimited indicates the identifier exhausted its request budget for the
// current window.
var ErrLimited = errors.New("request rate limited")

// Config holds throttle tuning parameters.
type Config struct {
	MaxRequests int
	Window      time.Duration
	KeyPrefix   string
}

// Limiter counts requests per identifier in fixed windows aligned to the
// window length. Window keys carry a TTL slightly past the window so stale
// counters clean themselves up.
type Limiter struct {
	store  store.Store
	config Config
	now    func() time.Time
}

// New creates a request limiter on the given store.
func New(s store.Store, cfg Config) *Limiter {
	return &Limiter{store: s, config: cfg, now: time.Now}
}

func (l *Limiter) key(identifier string) string {
	window := l.now().Unix() / int64(l.config.Window/time.Second)
	return l.config.KeyPrefix + identifier + ":" + strconv.FormatInt(window, 10)
}

// Allow records one request for identifier and reports whether it fits the
// window budget. Returns ErrLimited once the budget is exhausted, or a
// wrapped store.ErrUnavailable on backend faults.
func (l *Limiter) Allow(ctx context.Context, identifier string) error {
	// Pad the TTL so a request landing at the window edge still expires.
	ttl := l.config.Window + l.config.Window/6

	count, err := l.store.IncrementWithTTL(ctx, l.key(identifier), ttl)
	if err != nil {
		return err
	}
	if count > int64(l.config.MaxRequests) {
		return ErrLimited
	}
	return nil
}
