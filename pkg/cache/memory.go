package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is an in-process cache holding at most a fixed number of values.
// When full, the least recently used entry is evicted. Expired entries are
// dropped when read.
type Memory struct {
	entries *lru.Cache[string, memEntry]
	now     func() time.Time
}

// DefaultMaxEntries bounds a [Memory] created with a non-positive size.
const DefaultMaxEntries = 256

// NewMemory creates a memory cache.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	// lru.New only fails for a non-positive size.
	entries, _ := lru.New[string, memEntry](maxEntries)
	return &Memory{entries: entries, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := m.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		m.entries.Remove(key)
		return nil, false, nil
	}
	return e.data, true, nil
}

func (m *Memory) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	e := memEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries.Add(key, e)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int { return m.entries.Len() }

func (m *Memory) Close() error { return nil }

var _ Cache = (*Memory)(nil)
