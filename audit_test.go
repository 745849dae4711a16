package authbreaker

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func (s *countingSink) Count() int64 {
	return s.count.Load()
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate: make(chan struct{}),
	}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func TestAuditDisabledNoSinkCalls(t *testing.T) {
	sink := &countingSink{}

	// A disabled dispatcher is nil and every method is a no-op.
	dispatcher := newAuditDispatcher(AuditConfig{Enabled: false}, sink)
	if dispatcher != nil {
		t.Fatal("expected nil dispatcher when audit is disabled")
	}

	dispatcher.Emit(context.Background(), AuditEvent{EventType: AuditCounterReset})
	dispatcher.Close()
	time.Sleep(10 * time.Millisecond)

	if sink.Count() != 0 {
		t.Fatalf("expected no audit sink calls when disabled, got %d", sink.Count())
	}
}

func TestAuditBufferFullDropIfFullTrueDoesNotBlock(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: true,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	start := time.Now()
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("expected non-blocking emit when DropIfFull is true")
	}
	if dispatcher.Dropped() == 0 {
		t.Fatal("expected dropped counter to increase")
	}
}

func TestAuditBufferFullDropIfFullFalseRespectsContext(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: false,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	dispatcher.Emit(ctx, AuditEvent{EventType: "e3"})
	elapsed := time.Since(start)
	if elapsed < 10*time.Millisecond {
		t.Fatal("expected emit to block until context deadline")
	}
	if elapsed > time.Second {
		t.Fatal("expected emit to unblock at context deadline")
	}
}

func TestAuditCloseDrainsPendingEvents(t *testing.T) {
	sink := &countingSink{}
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 64,
		DropIfFull: true,
	}, sink)

	for i := 0; i < 10; i++ {
		dispatcher.Emit(context.Background(), AuditEvent{EventType: AuditCounterReset})
	}
	dispatcher.Close()

	if got := sink.Count(); got != 10 {
		t.Fatalf("expected 10 events after drain, got %d", got)
	}
}

func TestAuditCloseIdempotent(t *testing.T) {
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 4,
		DropIfFull: true,
	}, NoOpSink{})

	dispatcher.Close()
	dispatcher.Close()

	// Emits after close are silently discarded.
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "late"})
}

func TestAuditNilDispatcherSafe(t *testing.T) {
	var dispatcher *auditDispatcher

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e"})
	dispatcher.Close()
	if got := dispatcher.Dropped(); got != 0 {
		t.Fatalf("Dropped on nil = %d, want 0", got)
	}
}

func TestJSONWriterSinkWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		Timestamp:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		EventType:  AuditCircuitOpened,
		Identifier: "10.0.0.1",
		IncidentID: "inc-1",
		Count:      6,
	})
	sink.Emit(context.Background(), AuditEvent{
		EventType:  AuditCounterReset,
		Identifier: "10.0.0.1",
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}

	var first AuditEvent
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode first line: %v", err)
	}
	if first.EventType != AuditCircuitOpened || first.Count != 6 || first.IncidentID != "inc-1" {
		t.Fatalf("unexpected first event: %+v", first)
	}
}
