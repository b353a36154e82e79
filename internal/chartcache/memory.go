package chartcache

import (
	"context"
	"slices"
	"sync"
	"time"
)

type memEntry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process backend bounded by entry count. The oldest entry is
// evicted first.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memEntry
	order   []string
	max     int
	now     func() time.Time
}

var _ Backend = (*Memory)(nil)

func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Memory{
		entries: make(map[string]memEntry, maxEntries),
		max:     maxEntries,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.remove(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memEntry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}

	if _, ok := m.entries[key]; ok {
		m.remove(key)
	}
	for len(m.order) >= m.max {
		m.remove(m.order[0])
	}

	m.entries[key] = e
	m.order = append(m.order, key)
	return nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) remove(key string) {
	delete(m.entries, key)
	if i := slices.Index(m.order, key); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
}
