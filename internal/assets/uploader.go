package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"assetcatalog/internal/domain"
	"assetcatalog/internal/logging"
)

const (
	DefaultFolder   = "products"
	DefaultMaxBytes = 10 << 20
)

// DefaultAllowedTypes lists the media types accepted for upload
var DefaultAllowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/jpg",
	"application/pdf",
}

// UploaderConfig controls intake limits
type UploaderConfig struct {
	Folder       string
	MaxBytes     int64
	AllowedTypes []string
}

// Uploader copies source files into the asset root under a generated name.
// It stands in for a multipart intake layer: its output is what the catalog
// service consumes as uploaded assets.
type Uploader struct {
	store    *Store
	folder   string
	maxBytes int64
	allowed  []string
}

// NewUploader creates an uploader that stages into store. Zero config fields
// take their defaults.
func NewUploader(store *Store, cfg UploaderConfig) *Uploader {
	if cfg.Folder == "" {
		cfg.Folder = DefaultFolder
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if len(cfg.AllowedTypes) == 0 {
		cfg.AllowedTypes = DefaultAllowedTypes
	}
	return &Uploader{
		store:    store,
		folder:   cfg.Folder,
		maxBytes: cfg.MaxBytes,
		allowed:  cfg.AllowedTypes,
	}
}

// Stage checks src against the intake limits and copies it into the asset
// root. Rejections are validation errors.
func (u *Uploader) Stage(ctx context.Context, src string) (domain.UploadedAsset, error) {
	const op = "stage upload"

	if err := ctx.Err(); err != nil {
		return domain.UploadedAsset{}, err
	}

	info, err := os.Stat(src)
	if err != nil {
		return domain.UploadedAsset{}, domain.NewValidationError(op, fmt.Errorf("read %s: %w", src, err))
	}
	if info.IsDir() {
		return domain.UploadedAsset{}, domain.NewValidationError(op, fmt.Errorf("%s is a directory", src))
	}
	if info.Size() > u.maxBytes {
		return domain.UploadedAsset{}, domain.NewValidationError(op,
			fmt.Errorf("%s is %d bytes, limit is %d", src, info.Size(), u.maxBytes))
	}

	mtype, err := mimetype.DetectFile(src)
	if err != nil {
		return domain.UploadedAsset{}, domain.NewValidationError(op, fmt.Errorf("detect type of %s: %w", src, err))
	}
	if !u.accepts(mtype) {
		return domain.UploadedAsset{}, domain.NewValidationError(op,
			fmt.Errorf("%s has unsupported media type %s", src, mtype.String()))
	}

	ext := strings.ToLower(filepath.Ext(src))
	if ext == "" {
		ext = mtype.Extension()
	}

	dir := filepath.Join(u.store.Root(), filepath.FromSlash(u.folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.UploadedAsset{}, fmt.Errorf("create upload folder: %w", err)
	}
	dest := filepath.Join(dir, uuid.NewString()+ext)

	if err := copyFile(src, dest); err != nil {
		os.Remove(dest)
		return domain.UploadedAsset{}, fmt.Errorf("stage %s: %w", src, err)
	}

	logging.Ctx(ctx).Debug().
		Str("src", src).
		Str("dest", dest).
		Str("mime", mtype.String()).
		Msg("upload_staged")

	return domain.UploadedAsset{
		TempPath:  dest,
		SizeBytes: info.Size(),
		MimeType:  mtype.String(),
	}, nil
}

// StageAll stages every source or none of them
func (u *Uploader) StageAll(ctx context.Context, srcs []string) ([]domain.UploadedAsset, error) {
	staged := make([]domain.UploadedAsset, 0, len(srcs))
	for _, src := range srcs {
		a, err := u.Stage(ctx, src)
		if err != nil {
			paths := make([]string, len(staged))
			for i, s := range staged {
				paths[i] = u.store.Normalize(s.TempPath)
			}
			u.store.DeleteAll(context.WithoutCancel(ctx), paths)
			return nil, err
		}
		staged = append(staged, a)
	}
	return staged, nil
}

func (u *Uploader) accepts(mtype *mimetype.MIME) bool {
	for _, allowed := range u.allowed {
		if mtype.Is(allowed) {
			return true
		}
	}
	return false
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
