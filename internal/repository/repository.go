package repository

import (
	"context"
	"errors"
	"iter"
	"sync/atomic"

	"assetcatalog/internal/domain"
)

// ErrSequenceConsumed is yielded when a listing is ranged over a second time
var ErrSequenceConsumed = errors.New("entity sequence already consumed")

// EntityRepository persists catalog entities.
//
// Implementations return *domain.Error values: KindNotFound for unknown or
// malformed identifiers and KindStorage for everything the store itself
// failed at.
type EntityRepository interface {
	// Create persists a new entity and returns it with ID and timestamps set
	Create(ctx context.Context, draft domain.EntityDraft) (*domain.Entity, error)

	// FindByID returns the entity or a not-found error
	FindByID(ctx context.Context, id string) (*domain.Entity, error)

	// FindAll returns a lazy, single-use sequence of entities matching query.
	// The store is not queried until the sequence is ranged over.
	FindAll(ctx context.Context, query domain.Query) iter.Seq2[*domain.Entity, error]

	// Update merges the supplied patch fields, bumps UpdatedAt and returns
	// the stored result
	Update(ctx context.Context, id string, patch domain.EntityPatch) (*domain.Entity, error)

	// Delete removes the entity and returns its last state
	Delete(ctx context.Context, id string) (*domain.Entity, error)

	// Close releases resources
	Close() error
}

// Once wraps seq so it can be ranged over only one time. Later attempts
// yield a single ErrSequenceConsumed.
func Once(seq iter.Seq2[*domain.Entity, error]) iter.Seq2[*domain.Entity, error] {
	var used atomic.Bool
	return func(yield func(*domain.Entity, error) bool) {
		if used.Swap(true) {
			yield(nil, ErrSequenceConsumed)
			return
		}
		seq(yield)
	}
}

// Collect drains seq into a slice, stopping at the first error
func Collect(seq iter.Seq2[*domain.Entity, error]) ([]*domain.Entity, error) {
	var out []*domain.Entity
	for e, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Fail returns a sequence that yields err once
func Fail(err error) iter.Seq2[*domain.Entity, error] {
	return func(yield func(*domain.Entity, error) bool) {
		yield(nil, err)
	}
}
