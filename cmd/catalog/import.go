package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"assetcatalog/internal/codec"
	"assetcatalog/internal/domain"
	"assetcatalog/internal/logging"
	"assetcatalog/internal/validation"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create entities from a JSON or YAML document",
		Long: `Create every entity listed in a JSON or YAML document.

Asset paths in the document are relative to the document's directory.
Entities are created one at a time; the first failure stops the import and
entities created before it are kept.

Example document:
  entities:
    - name: Lamp
      price: 40
      assets: [photos/lamp-front.png]`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			if _, err := a.exporter(); err != nil {
				return err
			}
			importer, err := codec.ImporterForPath(path)
			if err != nil {
				return usageError{err}
			}

			f, err := os.Open(path)
			if err != nil {
				return usageError{err}
			}
			defer f.Close()

			records, err := importer.Parse(f)
			if err != nil {
				return domain.NewValidationError("import", err)
			}

			base := filepath.Dir(path)
			created := make([]*domain.Entity, 0, len(records))
			for i, rec := range records {
				if err := validation.ValidateDraft(rec.Draft); err != nil {
					return fmt.Errorf("entity %d: %w", i+1, err)
				}

				srcs := make([]string, len(rec.Assets))
				for j, src := range rec.Assets {
					if !filepath.IsAbs(src) {
						src = filepath.Join(base, src)
					}
					srcs[j] = src
				}

				uploads, err := a.uploader.StageAll(ctx, srcs)
				if err != nil {
					return fmt.Errorf("entity %d: %w", i+1, err)
				}
				e, err := a.catalog.Create(ctx, rec.Draft, uploads)
				if err != nil {
					return fmt.Errorf("entity %d: %w", i+1, err)
				}
				created = append(created, e)
			}

			logging.Ctx(ctx).Info().
				Str("file", path).
				Str("format", importer.Format()).
				Int("created", len(created)).
				Msg("import_done")

			return a.render(created...)
		},
	}
}
