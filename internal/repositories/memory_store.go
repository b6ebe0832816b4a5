package repositories

import (
	"sync"

	"github.com/desertthunder/smarterz/internal/models"
)

// MemoryStore is an in-process [ProgressStore] for tests.
type MemoryStore struct {
	mu  sync.Mutex
	set models.CompletedSet
	// Err, when set, is returned by every mutation.
	Err error
}

// NewMemoryStore creates a store seeded with ids, which are taken as-is.
func NewMemoryStore(ids ...string) *MemoryStore {
	return &MemoryStore{set: models.CompletedSet(ids)}
}

func (m *MemoryStore) Completed() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set.IDs(), nil
}

func (m *MemoryStore) MarkDone(id string) error {
	if err := m.check(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set.Add(id)
	return nil
}

func (m *MemoryStore) MarkUndone(id string) error {
	if err := m.check(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set.Remove(id)
	return nil
}

func (m *MemoryStore) Toggle(id string) (bool, error) {
	if err := m.check(id); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set.Remove(id) {
		return false, nil
	}
	m.set.Add(id)
	return true, nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) check(id string) error {
	if m.Err != nil {
		return m.Err
	}
	return requireID(id)
}
