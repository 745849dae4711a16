package throttle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agriconnect/authbreaker/store"
)

func testLimiter(max int) (*Limiter, *store.Memory) {
	mem := store.NewMemory()
	l := New(mem, Config{
		MaxRequests: max,
		Window:      time.Minute,
		KeyPrefix:   "rl:",
	})
	return l, mem
}

func TestAllowWithinBudget(t *testing.T) {
	l, _ := testLimiter(5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := l.Allow(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("request %d: expected allow, got %v", i+1, err)
		}
	}
}

func TestAllowDeniesBeyondBudget(t *testing.T) {
	l, _ := testLimiter(5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := l.Allow(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("request %d: %v", i+1, err)
		}
	}

	if err := l.Allow(ctx, "10.0.0.1"); !errors.Is(err, ErrLimited) {
		t.Fatalf("expected ErrLimited, got %v", err)
	}
}

func TestBudgetIsPerIdentifier(t *testing.T) {
	l, _ := testLimiter(1)
	ctx := context.Background()

	if err := l.Allow(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("first identifier: %v", err)
	}
	if err := l.Allow(ctx, "10.0.0.2"); err != nil {
		t.Fatalf("second identifier should have its own budget: %v", err)
	}
}

func TestBudgetResetsNextWindow(t *testing.T) {
	l, _ := testLimiter(1)
	ctx := context.Background()

	base := time.Unix(1000000, 0)
	l.now = func() time.Time { return base }

	if err := l.Allow(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if err := l.Allow(ctx, "10.0.0.1"); !errors.Is(err, ErrLimited) {
		t.Fatalf("expected ErrLimited in same window, got %v", err)
	}

	l.now = func() time.Time { return base.Add(time.Minute) }

	if err := l.Allow(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("expected fresh budget in next window, got %v", err)
	}
}
