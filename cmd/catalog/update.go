package main

import (
	"errors"

	"github.com/spf13/cobra"

	"assetcatalog/internal/domain"
	"assetcatalog/internal/validation"
)

func newUpdateCmd(a *app) *cobra.Command {
	var (
		name        string
		price       float64
		colors      []string
		description string
		assets      []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an entity",
		Long: `Update the supplied fields of an entity.

Passing --asset replaces the entity's whole asset list: the old files are
deleted before the record is written, and are not restored if the write fails.

Examples:
  catalog update 65f0c0ffee00000000000001 --price 25
  catalog update 65f0c0ffee00000000000001 --asset new-front.jpg --asset new-back.jpg`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if _, err := a.exporter(); err != nil {
				return err
			}

			var patch domain.EntityPatch
			f := cmd.Flags()
			if f.Changed("name") {
				patch.Name = &name
			}
			if f.Changed("price") {
				patch.Price = &price
			}
			if f.Changed("color") {
				patch.Colors = &colors
			}
			if f.Changed("description") {
				patch.Description = &description
			}
			if patch.IsEmpty() && len(assets) == 0 {
				return domain.NewValidationError("update", errors.New("nothing to update"))
			}
			if err := validation.ValidatePatch(patch); err != nil {
				return err
			}

			uploads, err := a.uploader.StageAll(ctx, assets)
			if err != nil {
				return err
			}

			updated, err := a.catalog.Update(ctx, args[0], patch, uploads)
			if err != nil {
				return err
			}
			return a.render(updated)
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "new name")
	f.Float64Var(&price, "price", 0, "new price")
	f.StringSliceVar(&colors, "color", nil, "new colors, replacing the old list")
	f.StringVar(&description, "description", "", "new description")
	f.StringArrayVar(&assets, "asset", nil, "asset file replacing all current assets, repeatable")

	return cmd
}
