package authbreaker

import (
	"errors"
	"time"
)

// Config defines the public configuration surface of the breaker.
//
// Config instances are intended to be populated before [Builder.Build] and
// treated as immutable afterwards.
type Config struct {
	Breaker  BreakerConfig
	Throttle ThrottleConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
BREAKER CONFIG
====================================
*/

// BreakerConfig tunes the consecutive-failure circuit.
type BreakerConfig struct {
	// Threshold is the consecutive-failure count beyond which the circuit
	// is Open. With Threshold 5 the sixth failure opens the circuit.
	Threshold int

	// WindowTTL is the counter lifetime measured from the first failure.
	// Later failures do not extend it; once it lapses the identifier is
	// observably Closed again without an explicit success.
	WindowTTL time.Duration

	// StoreTimeout bounds every store round-trip. Store calls are
	// best-effort; a timeout is treated like any other store fault.
	StoreTimeout time.Duration

	// KeyPrefix scopes failure-counter keys in the shared store.
	KeyPrefix string

	// FlagKeyPrefix scopes the legacy circuit-flag keys cleared on success
	// for deployments sharing a store with older protection layers.
	FlagKeyPrefix string
}

/*
====================================
THROTTLE CONFIG
====================================
*/

// ThrottleConfig tunes the per-identifier request budget enforced by the
// HTTP middleware in front of the circuit check.
type ThrottleConfig struct {
	Enabled     bool
	MaxRequests int
	Window      time.Duration
	KeyPrefix   string
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration the breaker ships with: threshold
// 5, a five-minute failure window, and a 60-requests-per-minute throttle.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Breaker: BreakerConfig{
			Threshold:     5,
			WindowTTL:     5 * time.Minute,
			StoreTimeout:  250 * time.Millisecond,
			KeyPrefix:     "lf:",
			FlagKeyPrefix: "cb:",
		},
		Throttle: ThrottleConfig{
			Enabled:     true,
			MaxRequests: 60,
			Window:      time.Minute,
			KeyPrefix:   "rl:",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types today; the clone keeps builder call sites
	// insulated from later mutation of the caller's struct.
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate rejects configurations the breaker cannot run with. It is called
// by [Builder.Build] and may be called directly.
func (c *Config) Validate() error {
	if c.Breaker.Threshold <= 0 {
		return errors.New("Breaker Threshold must be > 0")
	}
	if c.Breaker.WindowTTL <= 0 {
		return errors.New("Breaker WindowTTL must be > 0")
	}
	if c.Breaker.StoreTimeout <= 0 {
		return errors.New("Breaker StoreTimeout must be > 0")
	}
	if c.Breaker.KeyPrefix == "" {
		return errors.New("Breaker KeyPrefix is required")
	}
	if c.Breaker.FlagKeyPrefix == "" {
		return errors.New("Breaker FlagKeyPrefix is required")
	}
	if c.Breaker.KeyPrefix == c.Breaker.FlagKeyPrefix {
		return errors.New("Breaker KeyPrefix and FlagKeyPrefix must differ")
	}

	if c.Throttle.Enabled {
		if c.Throttle.MaxRequests <= 0 {
			return errors.New("Throttle MaxRequests must be > 0 when throttle is enabled")
		}
		if c.Throttle.Window < time.Second {
			return errors.New("Throttle Window must be >= 1s when throttle is enabled")
		}
		if c.Throttle.KeyPrefix == "" {
			return errors.New("Throttle KeyPrefix is required when throttle is enabled")
		}
		if c.Throttle.KeyPrefix == c.Breaker.KeyPrefix || c.Throttle.KeyPrefix == c.Breaker.FlagKeyPrefix {
			return errors.New("Throttle KeyPrefix must not collide with breaker prefixes")
		}
	}

	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	return nil
}
