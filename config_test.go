package authbreaker

import (
	"testing"
	"time"
)

func TestConfigValidateTable(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "defaults valid",
			mutate:    func(c *Config) {},
			wantValid: true,
		},
		{
			name: "threshold zero invalid",
			mutate: func(c *Config) {
				c.Breaker.Threshold = 0
			},
			wantValid: false,
		},
		{
			name: "threshold negative invalid",
			mutate: func(c *Config) {
				c.Breaker.Threshold = -1
			},
			wantValid: false,
		},
		{
			name: "window ttl zero invalid",
			mutate: func(c *Config) {
				c.Breaker.WindowTTL = 0
			},
			wantValid: false,
		},
		{
			name: "store timeout zero invalid",
			mutate: func(c *Config) {
				c.Breaker.StoreTimeout = 0
			},
			wantValid: false,
		},
		{
			name: "empty key prefix invalid",
			mutate: func(c *Config) {
				c.Breaker.KeyPrefix = ""
			},
			wantValid: false,
		},
		{
			name: "colliding prefixes invalid",
			mutate: func(c *Config) {
				c.Breaker.FlagKeyPrefix = c.Breaker.KeyPrefix
			},
			wantValid: false,
		},
		{
			name: "throttle zero budget invalid",
			mutate: func(c *Config) {
				c.Throttle.MaxRequests = 0
			},
			wantValid: false,
		},
		{
			name: "throttle sub-second window invalid",
			mutate: func(c *Config) {
				c.Throttle.Window = 500 * time.Millisecond
			},
			wantValid: false,
		},
		{
			name: "throttle prefix collides with breaker invalid",
			mutate: func(c *Config) {
				c.Throttle.KeyPrefix = c.Breaker.KeyPrefix
			},
			wantValid: false,
		},
		{
			name: "throttle disabled skips throttle checks",
			mutate: func(c *Config) {
				c.Throttle.Enabled = false
				c.Throttle.MaxRequests = 0
			},
			wantValid: true,
		},
		{
			name: "audit enabled zero buffer invalid",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 0
			},
			wantValid: false,
		},
		{
			name: "audit disabled skips audit checks",
			mutate: func(c *Config) {
				c.Audit.Enabled = false
				c.Audit.BufferSize = 0
			},
			wantValid: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.wantValid && err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestDefaultConfigMatchesDocumentedDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Breaker.Threshold != 5 {
		t.Fatalf("Threshold = %d, want 5", cfg.Breaker.Threshold)
	}
	if cfg.Breaker.WindowTTL != 5*time.Minute {
		t.Fatalf("WindowTTL = %v, want 5m", cfg.Breaker.WindowTTL)
	}
	if cfg.Throttle.MaxRequests != 60 || cfg.Throttle.Window != time.Minute {
		t.Fatalf("Throttle = %d/%v, want 60/1m", cfg.Throttle.MaxRequests, cfg.Throttle.Window)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}
