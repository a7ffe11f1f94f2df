package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"assetcatalog/internal/assets"
	"assetcatalog/internal/domain"
	"assetcatalog/internal/repository"
	"assetcatalog/internal/repository/mocks"
	"assetcatalog/internal/repository/sqlite"
)

type fixture struct {
	svc    *CatalogService
	repo   *mocks.MockRepository
	store  *assets.Store
	events chan Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := filepath.Join(t.TempDir(), "uploads")
	if err := os.MkdirAll(filepath.Join(root, "products"), 0o755); err != nil {
		t.Fatalf("failed to create asset root: %v", err)
	}

	store := assets.New(root, 2)
	repo := mocks.NewMockRepository()
	bus := NewEventBus()
	events := make(chan Event, 32)
	bus.Subscribe(events)

	return &fixture{
		svc:    NewCatalogService(repo, store, bus),
		repo:   repo,
		store:  store,
		events: events,
	}
}

// upload writes a file where the intake layer would and describes it
func (f *fixture) upload(t *testing.T, name string) domain.UploadedAsset {
	t.Helper()
	full := filepath.Join(f.store.Root(), "products", name)
	if err := os.WriteFile(full, []byte(name), 0o644); err != nil {
		t.Fatalf("failed to write upload: %v", err)
	}
	return domain.UploadedAsset{TempPath: full, SizeBytes: int64(len(name)), MimeType: "image/jpeg"}
}

func (f *fixture) uploads(t *testing.T, names ...string) []domain.UploadedAsset {
	t.Helper()
	out := make([]domain.UploadedAsset, len(names))
	for i, n := range names {
		out[i] = f.upload(t, n)
	}
	return out
}

func (f *fixture) drainEvents() []EventType {
	var types []EventType
	for {
		select {
		case ev := <-f.events:
			types = append(types, ev.Type)
		default:
			return types
		}
	}
}

func ptr[T any](v T) *T { return &v }

// ============================================================================
// Create
// ============================================================================

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx,
		domain.EntityDraft{Name: "Vase", Price: 30},
		f.uploads(t, "a.jpg", "b.jpg"),
	)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if len(created.AssetPaths) != 2 {
		t.Fatalf("expected 2 asset paths, got %v", created.AssetPaths)
	}
	for _, p := range created.AssetPaths {
		if !strings.HasPrefix(p, "uploads/") {
			t.Errorf("asset path %q not rooted at the asset marker", p)
		}
		if !f.store.Exists(p) {
			t.Errorf("expected %s to exist", p)
		}
	}

	if got := f.drainEvents(); !slices.Equal(got, []EventType{EventEntityCreated}) {
		t.Errorf("unexpected events: %v", got)
	}
}

func TestCreateWithoutUploads(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(context.Background(), domain.EntityDraft{Name: "Vase", Price: 30}, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(created.AssetPaths) != 0 {
		t.Errorf("expected no asset paths, got %v", created.AssetPaths)
	}
}

func TestCreateCompensatesOnStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.CreateErr = errors.New("disk full")
	ups := f.uploads(t, "a.jpg", "b.jpg")

	_, err := f.svc.Create(context.Background(), domain.EntityDraft{Name: "Vase", Price: 30}, ups)
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}

	for _, u := range ups {
		if _, statErr := os.Stat(u.TempPath); !os.IsNotExist(statErr) {
			t.Errorf("expected %s to be removed", u.TempPath)
		}
	}
	if f.repo.Len() != 0 {
		t.Errorf("expected no stored entities, got %d", f.repo.Len())
	}
	if got := f.drainEvents(); !slices.Equal(got, []EventType{EventAssetsCompensated}) {
		t.Errorf("unexpected events: %v", got)
	}
}

func TestCreateCompensatesWithCancelledContext(t *testing.T) {
	f := newFixture(t)
	f.repo.CreateErr = context.Canceled
	ups := f.uploads(t, "a.jpg")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.svc.Create(ctx, domain.EntityDraft{Name: "Vase", Price: 1}, ups); err == nil {
		t.Fatal("expected error")
	}
	if _, statErr := os.Stat(ups[0].TempPath); !os.IsNotExist(statErr) {
		t.Error("expected compensation to run despite cancellation")
	}
}

func TestCreateCompensatesWithSQLite(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	if err := os.MkdirAll(filepath.Join(root, "products"), 0o755); err != nil {
		t.Fatal(err)
	}
	repo, err := sqlite.New(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	store := assets.New(root, 2)
	svc := NewCatalogService(repo, store, nil)

	full := filepath.Join(root, "products", "x.png")
	if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// negative price violates the table constraint
	_, err = svc.Create(context.Background(),
		domain.EntityDraft{Name: "Bad", Price: -1},
		[]domain.UploadedAsset{{TempPath: full}},
	)
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if _, statErr := os.Stat(full); !os.IsNotExist(statErr) {
		t.Error("expected upload to be removed")
	}
}

// ============================================================================
// Read
// ============================================================================

func TestGetByIDNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{"not-a-valid-id-format", domain.NewID()} {
		if _, err := f.svc.GetByID(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("GetByID(%q): expected not found, got %v", id, err)
		}
	}
}

func TestListPriceBand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, p := range []float64{500, 1000, 3000, 5000, 6000} {
		if _, err := f.svc.Create(ctx, domain.EntityDraft{Name: "item", Price: p}, nil); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	got, err := repository.Collect(f.svc.List(ctx, domain.Query{MinPrice: ptr(1000.0), MaxPrice: ptr(5000.0)}))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var prices []float64
	for _, e := range got {
		prices = append(prices, e.Price)
	}
	if !slices.Equal(prices, []float64{1000, 3000, 5000}) {
		t.Errorf("expected [1000 3000 5000] in storage order, got %v", prices)
	}
}

func TestListSortAndSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, n := range []string{"pear", "Apple", "fig"} {
		if _, err := f.svc.Create(ctx, domain.EntityDraft{Name: n, Price: 1}, nil); err != nil {
			t.Fatal(err)
		}
	}

	seq := f.svc.List(ctx, domain.Query{SortField: domain.SortName, SortOrder: domain.SortDesc})
	got, err := repository.Collect(seq)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var names []string
	for _, e := range got {
		names = append(names, e.Name)
	}
	if !slices.Equal(names, []string{"pear", "fig", "Apple"}) {
		t.Errorf("unexpected order %v", names)
	}

	if _, err := repository.Collect(seq); !errors.Is(err, repository.ErrSequenceConsumed) {
		t.Errorf("expected ErrSequenceConsumed, got %v", err)
	}
}

func TestListInvalidQuery(t *testing.T) {
	f := newFixture(t)

	_, err := repository.Collect(f.svc.List(context.Background(), domain.Query{SortField: "stock"}))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}

	_, err = repository.Collect(f.svc.List(context.Background(), domain.Query{MinPrice: ptr(5.0), MaxPrice: ptr(1.0)}))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for inverted band, got %v", err)
	}
}

// ============================================================================
// Update
// ============================================================================

func TestUpdateReplacesAllAssets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.EntityDraft{Name: "Sofa", Price: 900},
		f.uploads(t, "1.jpg", "2.jpg", "3.jpg"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	old := created.AssetPaths

	f.repo.BeforeUpdate = func(string) {
		for _, p := range old {
			if f.store.Exists(p) {
				t.Errorf("old asset %s still present when record is written", p)
			}
		}
	}

	updated, err := f.svc.Update(ctx, created.ID, domain.EntityPatch{}, f.uploads(t, "4.jpg", "5.jpg"))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(updated.AssetPaths) != 2 {
		t.Fatalf("expected 2 asset paths, got %v", updated.AssetPaths)
	}
	for _, p := range updated.AssetPaths {
		if !f.store.Exists(p) {
			t.Errorf("expected new asset %s to exist", p)
		}
	}
	for _, p := range old {
		if f.store.Exists(p) {
			t.Errorf("expected old asset %s to be deleted", p)
		}
	}
	if updated.Name != "Sofa" || updated.Price != 900 {
		t.Errorf("unexpected field change: %+v", updated)
	}
}

func TestUpdateWithoutUploadsKeepsAssets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.EntityDraft{Name: "Sofa", Price: 900}, f.uploads(t, "1.jpg"))
	if err != nil {
		t.Fatal(err)
	}

	// asset paths supplied without uploads are ignored
	stray := []string{"uploads/products/other.jpg"}
	updated, err := f.svc.Update(ctx, created.ID, domain.EntityPatch{Price: ptr(750.0), AssetPaths: &stray}, nil)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Price != 750 {
		t.Errorf("expected price 750, got %v", updated.Price)
	}
	if !slices.Equal(updated.AssetPaths, created.AssetPaths) {
		t.Errorf("expected assets unchanged, got %v", updated.AssetPaths)
	}
	if !f.store.Exists(created.AssetPaths[0]) {
		t.Error("expected existing asset to survive")
	}
}

func TestUpdateFailureCompensatesNewUploads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.EntityDraft{Name: "Sofa", Price: 900}, f.uploads(t, "1.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	f.drainEvents()

	f.repo.UpdateErr = errors.New("write conflict")
	ups := f.uploads(t, "2.jpg")

	_, err = f.svc.Update(ctx, created.ID, domain.EntityPatch{}, ups)
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if _, statErr := os.Stat(ups[0].TempPath); !os.IsNotExist(statErr) {
		t.Error("expected new upload to be removed")
	}
	// old files were removed before the failed write and are not restored
	if f.store.Exists(created.AssetPaths[0]) {
		t.Error("expected old asset to stay deleted")
	}
	if got := f.drainEvents(); !slices.Equal(got, []EventType{EventAssetsCompensated}) {
		t.Errorf("unexpected events: %v", got)
	}
}

func TestUpdateNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{"bad-id", domain.NewID()} {
		ups := f.uploads(t, "n.jpg")
		_, err := f.svc.Update(ctx, id, domain.EntityPatch{Name: ptr("x")}, ups)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Update(%q): expected not found, got %v", id, err)
		}
		if _, statErr := os.Stat(ups[0].TempPath); !os.IsNotExist(statErr) {
			t.Errorf("Update(%q): expected upload to be removed", id)
		}
	}
	if f.repo.CallCount("Update") != 0 {
		t.Error("expected no record write for unknown ids")
	}
}

// ============================================================================
// Delete
// ============================================================================

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.EntityDraft{Name: "Lamp", Price: 20}, f.uploads(t, "a.jpg", "b.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	// one file already vanished out of band
	if err := os.Remove(filepath.Join(f.store.Root(), "products", "b.jpg")); err != nil {
		t.Fatal(err)
	}

	deleted, err := f.svc.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted.ID != created.ID || !slices.Equal(deleted.AssetPaths, created.AssetPaths) {
		t.Errorf("expected pre-deletion snapshot, got %+v", deleted)
	}
	for _, p := range created.AssetPaths {
		if f.store.Exists(p) {
			t.Errorf("expected %s to be deleted", p)
		}
	}
	if _, err := f.svc.GetByID(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if _, err := f.svc.Delete(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestDeleteToleratesFileFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.EntityDraft{Name: "Lamp", Price: 20}, f.uploads(t, "a.jpg"))
	if err != nil {
		t.Fatal(err)
	}

	// a non-empty directory in place of the file makes the unlink fail
	full := filepath.Join(f.store.Root(), "products", "a.jpg")
	if err := os.Remove(full); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(full, "inner"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("expected delete to succeed despite file failure, got %v", err)
	}
	if f.repo.Len() != 0 {
		t.Error("expected record to be removed")
	}
}

func TestDeleteRecordFailureAfterFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.EntityDraft{Name: "Lamp", Price: 20}, f.uploads(t, "a.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	f.repo.DeleteErr = errors.New("locked")

	if _, err := f.svc.Delete(ctx, created.ID); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if f.store.Exists(created.AssetPaths[0]) {
		t.Error("expected files to be deleted before the record")
	}
}

func TestDeleteMalformedID(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Delete(context.Background(), "???"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
