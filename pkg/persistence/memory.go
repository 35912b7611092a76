package persistence

import (
	"context"
	"sync"
)

type memoryBackend struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemoryStore returns a gateway that keeps state in process memory.
func NewMemoryStore() *Store {
	return newStore(DriverMemory, &memoryBackend{values: make(map[string][]byte)})
}

func (m *memoryBackend) get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (m *memoryBackend) put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memoryBackend) putIfAbsent(_ context.Context, key string, value []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.values[key]; ok {
		return append([]byte(nil), existing...), nil
	}
	m.values[key] = append([]byte(nil), value...)
	return append([]byte(nil), value...), nil
}

func (m *memoryBackend) close() error { return nil }
