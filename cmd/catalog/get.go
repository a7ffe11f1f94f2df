package main

import "github.com/spf13/cobra"

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one entity",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.exporter(); err != nil {
				return err
			}
			e, err := a.catalog.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(e)
		},
	}
}
