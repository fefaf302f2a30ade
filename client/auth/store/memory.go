package store

import "sync"

type memoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func (m *memoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *memoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// NewMemoryStorage creates a process-lifetime storage tier.
func NewMemoryStorage() Storage {
	return &memoryStorage{values: map[string]string{}}
}
