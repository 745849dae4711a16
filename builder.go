package authbreaker

import (
	"errors"

	"github.com/agriconnect/authbreaker/internal/counter"
	"github.com/agriconnect/authbreaker/internal/throttle"
	"github.com/agriconnect/authbreaker/store"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Builder assembles a [Breaker]. Builders are single-use: Build consumes the
// builder and further calls on it fail.
//
//	br, err := authbreaker.New().
//		WithRedis(client).
//		WithLogger(logger).
//		Build()
type Builder struct {
	cfg       Config
	store     store.Store
	log       *zap.Logger
	auditSink AuditSink
	built     bool
}

// New returns a builder pre-loaded with [DefaultConfig].
func New() *Builder {
	return &Builder{cfg: defaultConfig()}
}

// WithConfig replaces the entire configuration. Call it before the
// fine-grained WithX setters or it overwrites them.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cloneConfig(cfg)
	return b
}

// WithRedis backs the breaker with a Redis client.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	if client != nil {
		b.store = store.NewRedis(client)
	}
	return b
}

// WithStore backs the breaker with an arbitrary [store.Store], typically the
// in-memory store for tests and single-process deployments.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.store = s
	return b
}

// WithLogger sets the structured logger. Defaults to zap.NewNop.
func (b *Builder) WithLogger(log *zap.Logger) *Builder {
	b.log = log
	return b
}

// WithAuditSink enables audit dispatch to sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.cfg.Audit.Enabled = sink != nil
	return b
}

// WithThreshold overrides the consecutive-failure threshold.
func (b *Builder) WithThreshold(threshold int) *Builder {
	b.cfg.Breaker.Threshold = threshold
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.cfg.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the RecordFailure latency histogram. Implies
// metrics enabled.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.cfg.Metrics.EnableLatencyHistograms = enabled
	if enabled {
		b.cfg.Metrics.Enabled = true
	}
	return b
}

// WithThrottleDisabled turns off the request budget entirely.
func (b *Builder) WithThrottleDisabled() *Builder {
	b.cfg.Throttle.Enabled = false
	return b
}

// Build validates the configuration and assembles the breaker. The builder
// is consumed; reusing it returns an error.
func (b *Builder) Build() (*Breaker, error) {
	if b.built {
		return nil, errors.New("builder already consumed")
	}
	b.built = true

	if b.store == nil {
		return nil, errors.New("a store is required: call WithRedis or WithStore")
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	log := b.log
	if log == nil {
		log = zap.NewNop()
	}

	br := &Breaker{
		config: b.cfg,
		counters: counter.New(b.store, counter.Config{
			WindowTTL:     b.cfg.Breaker.WindowTTL,
			KeyPrefix:     b.cfg.Breaker.KeyPrefix,
			FlagKeyPrefix: b.cfg.Breaker.FlagKeyPrefix,
		}),
		metrics: NewMetrics(b.cfg.Metrics),
		log:     log,
		aud:     newAuditDispatcher(b.cfg.Audit, b.auditSink),
	}

	if b.cfg.Throttle.Enabled {
		br.throttle = throttle.New(b.store, throttle.Config{
			MaxRequests: b.cfg.Throttle.MaxRequests,
			Window:      b.cfg.Throttle.Window,
			KeyPrefix:   b.cfg.Throttle.KeyPrefix,
		})
	}

	return br, nil
}
