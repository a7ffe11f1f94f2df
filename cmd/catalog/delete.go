package main

import "github.com/spf13/cobra"

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entity and its asset files",
		Long: `Delete an entity. Its asset files are removed first, then the record.
Files that cannot be removed are logged and do not fail the command.
The entity is printed as it was before deletion.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.exporter(); err != nil {
				return err
			}
			deleted, err := a.catalog.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(deleted)
		},
	}
}
