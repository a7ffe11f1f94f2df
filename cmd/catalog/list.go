package main

import (
	"github.com/spf13/cobra"

	"assetcatalog/internal/domain"
	"assetcatalog/internal/repository"
)

func newListCmd(a *app) *cobra.Command {
	var (
		name      string
		minPrice  float64
		maxPrice  float64
		sortField string
		sortOrder string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities",
		Long: `List entities, optionally filtered and sorted.

--name matches a case-insensitive substring. Price bounds are inclusive.
Without --sort entities come back in the order they were stored.

Examples:
  catalog list --min-price 1000 --max-price 5000
  catalog list --name hood --sort price --order desc -o yaml`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.exporter(); err != nil {
				return err
			}

			field, err := domain.ParseSortField(sortField)
			if err != nil {
				return err
			}
			q := domain.Query{
				Name:      name,
				SortField: field,
				SortOrder: domain.ParseSortOrder(sortOrder),
			}
			if cmd.Flags().Changed("min-price") {
				q.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				q.MaxPrice = &maxPrice
			}

			entities, err := repository.Collect(a.catalog.List(cmd.Context(), q))
			if err != nil {
				return err
			}
			return a.render(entities...)
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "case-insensitive name substring")
	f.Float64Var(&minPrice, "min-price", 0, "lowest price, inclusive")
	f.Float64Var(&maxPrice, "max-price", 0, "highest price, inclusive")
	f.StringVar(&sortField, "sort", "", "sort by name, price, createdAt or updatedAt")
	f.StringVar(&sortOrder, "order", "asc", "sort order: asc or desc")

	return cmd
}
