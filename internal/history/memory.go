package history

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu sync.Mutex
	h  *History
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{h: New()}
}

func (m *MemoryStore) Load(context.Context) (*History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.h.Clone(), nil
}

func (m *MemoryStore) Append(_ context.Context, texts []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.h.Add(texts...)
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.h = New()
	return nil
}
