// ABOUTME: In-memory KV backend used by tests and the default server profile.
// ABOUTME: Values are copied on the way in and out so callers cannot alias them.
package storage

import (
	"context"
	"sync"
)

// MemoryKV is a map-backed KV.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// Compile-time check that MemoryKV implements KV.
var _ KV = (*MemoryKV)(nil)

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of value under key.
func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Close is a no-op.
func (m *MemoryKV) Close() error { return nil }
