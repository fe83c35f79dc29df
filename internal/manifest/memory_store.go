package manifest

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-process Store, used by tests and dry runs.
type MemoryStore struct {
	mu     sync.Mutex
	labels []string
}

// NewMemoryStore returns a store seeded with labels.
func NewMemoryStore(labels ...string) *MemoryStore {
	return &MemoryStore{labels: slices.Clone(labels)}
}

func (m *MemoryStore) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.labels)
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (m *MemoryStore) Append(ctx context.Context, label string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.labels, label) {
		return false, nil
	}
	m.labels = append(m.labels, label)
	return true, nil
}

func (m *MemoryStore) Remove(ctx context.Context, label string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := slices.Index(m.labels, label)
	if idx < 0 {
		return false, nil
	}
	m.labels = slices.Delete(m.labels, idx, idx+1)
	return true, nil
}
