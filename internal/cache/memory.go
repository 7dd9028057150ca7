package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local key-value store used when Redis is not
// reachable. Values do not survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]memoryEntry
	now    func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]memoryEntry), now: time.Now}
}

// Set stores a key-value pair. A zero ttl keeps the key forever.
func (m *MemoryStore) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.values[key] = e
	return nil
}

// Get retrieves a value by key.
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.values[key]
	if !ok || (!e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)) {
		return "", ErrNotFound
	}
	return e.value, nil
}
