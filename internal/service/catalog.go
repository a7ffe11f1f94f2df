package service

import (
	"context"
	"iter"
	"time"

	"assetcatalog/internal/domain"
	"assetcatalog/internal/logging"
	"assetcatalog/internal/metrics"
	"assetcatalog/internal/repository"
)

// AssetStore is the part of assets.Store the catalog needs
type AssetStore interface {
	Normalize(path string) string
	DeleteAll(ctx context.Context, paths []string) int
}

// CatalogService keeps the record store and the asset files in agreement.
// The two sides share no transaction, so every write that can strand files
// removes them itself when the record write fails.
type CatalogService struct {
	repo     repository.EntityRepository
	store    AssetStore
	eventBus *EventBus
}

// NewCatalogService creates a new catalog service. eventBus may be nil.
func NewCatalogService(repo repository.EntityRepository, store AssetStore, eventBus *EventBus) *CatalogService {
	return &CatalogService{
		repo:     repo,
		store:    store,
		eventBus: eventBus,
	}
}

// Create persists a new entity owning the uploaded assets. If the record
// cannot be written the uploads are deleted before the error is returned.
func (s *CatalogService) Create(ctx context.Context, draft domain.EntityDraft, uploads []domain.UploadedAsset) (_ *domain.Entity, err error) {
	const op = "create"
	defer func(start time.Time) { metrics.RecordOperation(op, time.Since(start), err) }(time.Now())

	paths := s.normalize(uploads)
	draft.AssetPaths = paths

	created, err := s.repo.Create(ctx, draft)
	if err != nil {
		s.compensate(ctx, op, "", paths)
		return nil, asStorageError(op, "", err)
	}

	logging.Ctx(ctx).Info().
		Str("id", created.ID).
		Int("assets", len(created.AssetPaths)).
		Msg("entity_created")

	s.eventBus.Publish(Event{
		Type:    EventEntityCreated,
		Payload: map[string]string{"entity_id": created.ID},
	})

	return created, nil
}

// List returns a lazy, single-use sequence of entities matching q
func (s *CatalogService) List(ctx context.Context, q domain.Query) iter.Seq2[*domain.Entity, error] {
	const op = "list"

	if err := q.Validate(); err != nil {
		metrics.RecordOperation(op, 0, err)
		return repository.Fail(err)
	}

	seq := s.repo.FindAll(ctx, q)
	return func(yield func(*domain.Entity, error) bool) {
		start := time.Now()
		var failed error
		for e, err := range seq {
			if err != nil {
				failed = err
			}
			if !yield(e, err) {
				break
			}
		}
		metrics.RecordOperation(op, time.Since(start), failed)
	}
}

// GetByID returns one entity. Malformed and unknown identifiers are both
// reported as not found.
func (s *CatalogService) GetByID(ctx context.Context, id string) (_ *domain.Entity, err error) {
	const op = "get"
	defer func(start time.Time) { metrics.RecordOperation(op, time.Since(start), err) }(time.Now())

	if !domain.ValidID(id) {
		return nil, domain.NewNotFoundError(op, id)
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, asStorageError(op, id, err)
	}
	return e, nil
}

// Update applies patch to the entity. When uploads are present they replace
// the entity's whole asset list: the old files are deleted first, then the
// record is written. A failed write deletes the new uploads; the old files
// are not restored.
func (s *CatalogService) Update(ctx context.Context, id string, patch domain.EntityPatch, uploads []domain.UploadedAsset) (_ *domain.Entity, err error) {
	const op = "update"
	defer func(start time.Time) { metrics.RecordOperation(op, time.Since(start), err) }(time.Now())

	newPaths := s.normalize(uploads)

	if !domain.ValidID(id) {
		s.compensate(ctx, op, id, newPaths)
		return nil, domain.NewNotFoundError(op, id)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.compensate(ctx, op, id, newPaths)
		return nil, asStorageError(op, id, err)
	}

	// asset paths only change through uploads
	patch.AssetPaths = nil
	if len(newPaths) > 0 {
		if current.HasAssets() {
			failed := s.store.DeleteAll(context.WithoutCancel(ctx), current.AssetPaths)
			logging.Ctx(ctx).Info().
				Str("id", id).
				Int("removed", len(current.AssetPaths)-failed).
				Int("failed", failed).
				Msg("assets_replaced")
		}
		patch.AssetPaths = &newPaths
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.compensate(ctx, op, id, newPaths)
		return nil, asStorageError(op, id, err)
	}

	logging.Ctx(ctx).Info().
		Str("id", id).
		Int("assets", len(updated.AssetPaths)).
		Msg("entity_updated")

	s.eventBus.Publish(Event{
		Type:    EventEntityUpdated,
		Payload: map[string]string{"entity_id": id},
	})

	return updated, nil
}

// Delete removes the entity's files and then its record, returning the
// entity as it was before deletion. File failures are logged, not returned.
func (s *CatalogService) Delete(ctx context.Context, id string) (_ *domain.Entity, err error) {
	const op = "delete"
	defer func(start time.Time) { metrics.RecordOperation(op, time.Since(start), err) }(time.Now())

	if !domain.ValidID(id) {
		return nil, domain.NewNotFoundError(op, id)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, asStorageError(op, id, err)
	}

	failed := s.store.DeleteAll(context.WithoutCancel(ctx), current.AssetPaths)

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, asStorageError(op, id, err)
	}
	if deleted == nil {
		deleted = current
	}

	logging.Ctx(ctx).Info().
		Str("id", id).
		Int("assets", len(current.AssetPaths)).
		Int("asset_failures", failed).
		Msg("entity_deleted")

	s.eventBus.Publish(Event{
		Type:    EventEntityDeleted,
		Payload: map[string]string{"entity_id": id},
	})

	return deleted, nil
}

func (s *CatalogService) normalize(uploads []domain.UploadedAsset) []string {
	paths := make([]string, 0, len(uploads))
	for _, u := range uploads {
		paths = append(paths, s.store.Normalize(u.TempPath))
	}
	return paths
}

// compensate deletes files written for a request whose record write failed.
// It runs detached from cancellation so an abandoned request still cleans up.
func (s *CatalogService) compensate(ctx context.Context, op, id string, paths []string) {
	if len(paths) == 0 {
		return
	}

	failed := s.store.DeleteAll(context.WithoutCancel(ctx), paths)
	metrics.RecordCompensation(op)

	logging.Ctx(ctx).Warn().
		Str("operation", op).
		Str("id", id).
		Int("paths", len(paths)).
		Int("failed", failed).
		Msg("assets_compensated")

	s.eventBus.Publish(Event{
		Type: EventAssetsCompensated,
		Payload: map[string]interface{}{
			"operation": op,
			"entity_id": id,
			"paths":     len(paths),
			"failed":    failed,
		},
	})
}

// asStorageError keeps typed errors and wraps anything else as a storage failure
func asStorageError(op, id string, err error) error {
	if domain.KindOf(err) != "" {
		return err
	}
	return domain.NewStorageError(op, id, err)
}
