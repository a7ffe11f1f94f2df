package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"assetcatalog/internal/domain"
)

// Record is one entity read from an import document. Assets lists source
// files that still have to go through upload intake.
type Record struct {
	Draft  domain.EntityDraft
	Assets []string
}

// Importer interface for reading entity drafts from various formats
type Importer interface {
	Parse(r io.Reader) ([]Record, error)
	Format() string
}

// Exporter interface for writing entity listings to various formats
type Exporter interface {
	Export(entities []*domain.Entity, w io.Writer) error
	Format() string
}

// ExporterFor returns the exporter registered for format
func ExporterFor(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return NewTableCodec(), nil
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// ImporterForPath picks an importer from the file extension
func ImporterForPath(path string) (Importer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONCodec(), nil
	case ".yaml", ".yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("cannot infer import format from %q", path)
}
