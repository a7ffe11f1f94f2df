package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"assetcatalog/internal/domain"
	"assetcatalog/internal/logging"
	"assetcatalog/internal/metrics"
)

const (
	// DefaultMarker is the first segment of every stored asset path
	DefaultMarker = "uploads"

	// DefaultDeleteConcurrency bounds parallel unlinks in DeleteAll
	DefaultDeleteConcurrency = 8
)

// Store owns the on-disk asset root. Stored paths are relative and start
// with the root's final segment, e.g. "uploads/products/abc.jpg".
type Store struct {
	root        string
	marker      string
	concurrency int
}

// New creates a store rooted at root. A non-positive concurrency uses
// DefaultDeleteConcurrency.
func New(root string, concurrency int) *Store {
	if root == "" {
		root = DefaultMarker
	}
	root = filepath.Clean(root)

	marker := filepath.Base(root)
	if marker == "." || marker == string(filepath.Separator) {
		marker = DefaultMarker
	}
	if concurrency <= 0 {
		concurrency = DefaultDeleteConcurrency
	}

	return &Store{
		root:        root,
		marker:      marker,
		concurrency: concurrency,
	}
}

// Root returns the filesystem directory holding the assets
func (s *Store) Root() string {
	return s.root
}

// Marker returns the leading segment of stored paths
func (s *Store) Marker() string {
	return s.marker
}

// Normalize converts a path as produced by the upload layer into the stored
// relative form. Backslashes become slashes; everything from the first marker
// segment onward is kept, otherwise the marker is prefixed. Normalize is
// idempotent.
func (s *Store) Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if p == s.marker {
		return p
	}
	if root := filepath.ToSlash(s.root); strings.HasPrefix(p, root+"/") {
		return s.marker + "/" + strings.TrimPrefix(p, root+"/")
	}

	segs := strings.Split(p, "/")
	for i, seg := range segs[:len(segs)-1] {
		if seg == s.marker {
			return strings.Join(segs[i:], "/")
		}
	}

	for {
		trimmed := strings.TrimPrefix(strings.TrimLeft(p, "/"), "./")
		if trimmed == p {
			break
		}
		p = trimmed
	}
	if p == "" {
		return s.marker
	}
	return s.marker + "/" + p
}

// Resolve maps a stored path to its location on disk. Paths that would leave
// the root are rejected.
func (s *Store) Resolve(rel string) (string, error) {
	rel = s.Normalize(rel)
	sub := path.Clean(strings.TrimPrefix(strings.TrimPrefix(rel, s.marker), "/"))
	if sub == "." || sub == "" {
		return "", fmt.Errorf("asset path %q names the root itself", rel)
	}

	full := filepath.Join(s.root, filepath.FromSlash(sub))
	r, err := filepath.Rel(s.root, full)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("asset path %q escapes root %s", rel, s.root)
	}
	return full, nil
}

// Exists reports whether the stored path refers to an existing file
func (s *Store) Exists(rel string) bool {
	full, err := s.Resolve(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && !info.IsDir()
}

// Delete removes one asset. A file that is already gone is not an error.
// Any other failure is logged and returned as a filesystem warning; callers
// count it and move on.
func (s *Store) Delete(ctx context.Context, rel string) error {
	log := logging.WithComponent(ctx, "assets").With().Str("path", rel).Logger()

	full, err := s.Resolve(rel)
	if err != nil {
		metrics.RecordAssetDeletion(metrics.DeletionFailed)
		log.Warn().Err(err).Msg("asset_path_rejected")
		return domain.NewFileSystemWarning("delete asset", rel, err)
	}

	info, err := os.Lstat(full)
	if errors.Is(err, fs.ErrNotExist) {
		metrics.RecordAssetDeletion(metrics.DeletionMissing)
		log.Debug().Msg("asset_already_absent")
		return nil
	}
	if err == nil && info.IsDir() {
		err = fmt.Errorf("asset path %q is a directory", rel)
		metrics.RecordAssetDeletion(metrics.DeletionFailed)
		log.Warn().Err(err).Msg("asset_path_rejected")
		return domain.NewFileSystemWarning("delete asset", rel, err)
	}

	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			metrics.RecordAssetDeletion(metrics.DeletionMissing)
			log.Debug().Msg("asset_already_absent")
			return nil
		}
		metrics.RecordAssetDeletion(metrics.DeletionFailed)
		log.Warn().Err(err).Msg("asset_delete_failed")
		return domain.NewFileSystemWarning("delete asset", rel, err)
	}

	metrics.RecordAssetDeletion(metrics.DeletionDeleted)
	log.Debug().Msg("asset_deleted")
	return nil
}

// DeleteAll removes every path with at most the configured number of unlinks
// in flight and returns once all of them finished. One failure never stops
// the others. The result is the number of failed deletions.
func (s *Store) DeleteAll(ctx context.Context, paths []string) int {
	if len(paths) == 0 {
		return 0
	}

	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, p := range paths {
		g.Go(func() error {
			if err := s.Delete(ctx, p); err != nil {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return int(failed.Load())
}
