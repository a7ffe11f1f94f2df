package mocks

import (
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	"assetcatalog/internal/domain"
	"assetcatalog/internal/repository"
)

// MockRepository is an in-memory implementation of the EntityRepository
// interface for testing. Setting one of the *Err fields makes the matching
// operation fail with that error without touching state.
type MockRepository struct {
	mu       sync.RWMutex
	entities map[string]*domain.Entity
	order    []string

	CreateErr error
	UpdateErr error
	DeleteErr error
	ListErr   error

	// BeforeUpdate runs at the start of Update, before any error injection
	BeforeUpdate func(id string)

	Calls map[string]int
}

var _ repository.EntityRepository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{
		entities: make(map[string]*domain.Entity),
		Calls:    make(map[string]int),
	}
}

func (m *MockRepository) record(op string) {
	m.Calls[op]++
}

// CallCount returns how many times op was invoked
func (m *MockRepository) CallCount(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Calls[op]
}

// Len returns the number of stored entities
func (m *MockRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entities)
}

// Create stores a new entity
func (m *MockRepository) Create(ctx context.Context, draft domain.EntityDraft) (*domain.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Create")

	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	e := domain.NewEntity(domain.NewID(), draft, time.Now().UTC())
	m.entities[e.ID] = e
	m.order = append(m.order, e.ID)
	return e.Clone(), nil
}

// FindByID returns a copy of the stored entity
func (m *MockRepository) FindByID(ctx context.Context, id string) (*domain.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entities[id]
	if !ok {
		return nil, domain.NewNotFoundError("find entity", id)
	}
	return e.Clone(), nil
}

// FindAll filters and sorts a snapshot taken when iteration starts
func (m *MockRepository) FindAll(ctx context.Context, q domain.Query) iter.Seq2[*domain.Entity, error] {
	return repository.Once(func(yield func(*domain.Entity, error) bool) {
		if err := q.Validate(); err != nil {
			yield(nil, err)
			return
		}

		m.mu.RLock()
		if m.ListErr != nil {
			err := m.ListErr
			m.mu.RUnlock()
			yield(nil, err)
			return
		}
		var matched []*domain.Entity
		for _, id := range m.order {
			if e := m.entities[id]; q.Matches(e) {
				matched = append(matched, e.Clone())
			}
		}
		m.mu.RUnlock()

		if q.SortField != domain.SortNone {
			slices.SortStableFunc(matched, func(a, b *domain.Entity) int {
				switch {
				case q.Less(a, b):
					return -1
				case q.Less(b, a):
					return 1
				}
				return 0
			})
		}

		for _, e := range matched {
			if !yield(e, nil) {
				return
			}
		}
	})
}

// Update merges patch into the stored entity
func (m *MockRepository) Update(ctx context.Context, id string, patch domain.EntityPatch) (*domain.Entity, error) {
	if m.BeforeUpdate != nil {
		m.BeforeUpdate(id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Update")

	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}

	e, ok := m.entities[id]
	if !ok {
		return nil, domain.NewNotFoundError("update entity", id)
	}
	patch.Apply(e)
	e.Touch(time.Now().UTC())
	return e.Clone(), nil
}

// Delete removes the entity
func (m *MockRepository) Delete(ctx context.Context, id string) (*domain.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Delete")

	if m.DeleteErr != nil {
		return nil, m.DeleteErr
	}

	e, ok := m.entities[id]
	if !ok {
		return nil, domain.NewNotFoundError("delete entity", id)
	}
	delete(m.entities, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	return e, nil
}

// Close is a no-op
func (m *MockRepository) Close() error {
	return nil
}
