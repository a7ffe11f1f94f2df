package main

import (
	"github.com/spf13/cobra"

	"assetcatalog/internal/domain"
	"assetcatalog/internal/logging"
	"assetcatalog/internal/validation"
)

func newCreateCmd(a *app) *cobra.Command {
	var (
		draft  domain.EntityDraft
		assets []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an entity, uploading its asset files",
		Long: `Create an entity. Each --asset file is checked against the upload limits
and copied under the asset root before the record is written. If the record
cannot be written the copied files are removed again.

Examples:
  catalog create --name Hoodie --price 30 --color blue --asset front.jpg --asset back.jpg
  catalog create --name Sticker --price 0 -o json`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if _, err := a.exporter(); err != nil {
				return err
			}
			if err := validation.ValidateDraft(draft); err != nil {
				return err
			}

			uploads, err := a.uploader.StageAll(ctx, assets)
			if err != nil {
				return err
			}

			created, err := a.catalog.Create(ctx, draft, uploads)
			if err != nil {
				return err
			}

			logging.Ctx(ctx).Debug().Str("id", created.ID).Msg("create_done")
			return a.render(created)
		},
	}

	f := cmd.Flags()
	f.StringVar(&draft.Name, "name", "", "entity name (required)")
	f.Float64Var(&draft.Price, "price", 0, "price, zero or more")
	f.StringSliceVar(&draft.Colors, "color", nil, "color, repeatable or comma separated")
	f.StringVar(&draft.Description, "description", "", "free-form description")
	f.StringArrayVar(&assets, "asset", nil, "asset file to upload, repeatable")

	return cmd
}
