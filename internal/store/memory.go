package store

import (
	"maps"
	"slices"
	"sync"

	"nickandperla.net/linedsl/internal/command"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu       sync.RWMutex
	data     map[string][]command.Command
	metadata map[string]string
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data:     make(map[string][]command.Command),
		metadata: make(map[string]string),
	}
}

// GetSubscript retrieves a subscript body by name.
func (m *Memory) GetSubscript(name string) ([]command.Command, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.data[name]
	if !ok {
		return nil, false, nil
	}
	return command.CloneAll(body), true, nil
}

// PutSubscript stores a subscript body by name.
func (m *Memory) PutSubscript(name string, body []command.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if body == nil {
		body = []command.Command{}
	}
	m.data[name] = command.CloneAll(body)
	return nil
}

// DeleteSubscript removes a subscript by name.
func (m *Memory) DeleteSubscript(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	return nil
}

// ListSubscripts returns the stored names in sorted order.
func (m *Memory) ListSubscripts() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.data)), nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}

// GetMetadata retrieves a metadata value by key.
func (m *Memory) GetMetadata(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metadata[key], nil
}

// SetMetadata stores a metadata value by key.
func (m *Memory) SetMetadata(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = value
	return nil
}
