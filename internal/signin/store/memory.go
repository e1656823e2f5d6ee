package store

import (
	"context"
	"sync"
	"time"

	"github.com/dropbox/godropbox/time2"
)

// Memory keeps records in process memory until their TTL passes.
type Memory struct {
	mu      sync.RWMutex
	records map[string]memoryEntry
	ttl     time.Duration
	clock   time2.Clock
}

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory(ttl time.Duration, clock time2.Clock) *Memory {
	if clock == nil {
		clock = time2.DefaultClock
	}

	return &Memory{
		records: make(map[string]memoryEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

func (m *Memory) Save(_ context.Context, rec *Record) error {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictExpiredLocked(now)
	m.records[rec.Token] = memoryEntry{
		rec:       copyRecord(rec),
		expiresAt: now.Add(m.ttl),
	}

	return nil
}

func (m *Memory) Get(_ context.Context, token string) (*Record, error) {
	now := m.clock.Now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.records[token]
	if !ok || !now.Before(entry.expiresAt) {
		return nil, ErrNotFound
	}

	rec := copyRecord(&entry.rec)
	return &rec, nil
}

func (m *Memory) UpdateState(_ context.Context, token string, state string, userFID *int64) error {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.records[token]
	if !ok || !now.Before(entry.expiresAt) {
		return nil
	}

	entry.rec.State = state
	entry.rec.UserFID = copyInt64(userFID)
	entry.rec.UpdatedAt = now
	m.records[token] = entry

	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

// Len returns the number of live records.
func (m *Memory) Len() int {
	now := m.clock.Now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, entry := range m.records {
		if now.Before(entry.expiresAt) {
			n++
		}
	}

	return n
}

func (m *Memory) evictExpiredLocked(now time.Time) {
	for token, entry := range m.records {
		if !now.Before(entry.expiresAt) {
			delete(m.records, token)
		}
	}
}

func copyRecord(rec *Record) Record {
	cp := *rec
	cp.UserFID = copyInt64(rec.UserFID)
	return cp
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
