package store

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// Memory is a process-local Store for tests and single-process hosts.
// Expiry is lazy: entries are dropped when read or written after their
// deadline, which matches the observable contract of a TTL store.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (s *Memory) IncrementWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || s.expired(entry) {
		entry = &memoryEntry{}
		if ttl > 0 {
			entry.expiresAt = s.now().Add(ttl)
		}
		s.entries[key] = entry
	}

	entry.count++
	return entry.count, nil
}

func (s *Memory) Get(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return 0, nil
	}
	if s.expired(entry) {
		delete(s.entries, key)
		return 0, nil
	}
	return entry.count, nil
}

func (s *Memory) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

// Advance shifts the store's clock forward. Test helper mirroring
// miniredis.FastForward so TTL behavior is testable without sleeping.
func (s *Memory) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.now
	offset := d
	s.now = func() time.Time { return base().Add(offset) }
}

func (s *Memory) expired(entry *memoryEntry) bool {
	return !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt)
}
