package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"assetcatalog/internal/config"
	"assetcatalog/internal/logging"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write or inspect the catalog configuration",
		// Replaces the root hook: config commands never open the record store
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.command = "config " + cmd.Name()
			cmd.SetContext(logging.ContextWithNewCorrelationID(cmd.Context()))
			return nil
		},
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a))
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with defaults and the given flags",
		Long: `Write a config file holding the defaults plus any global flags given.

The file goes to --config when set, otherwise to the user config directory
(for example ~/.config/catalog/config.yaml). Relative --db and --assets values
are read back relative to the file's directory.

Examples:
  catalog --config ./site/catalog.yaml --assets uploads --db catalog.db config init
  catalog --driver mongo --db mongodb://localhost:27017 config init --force`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				p, err := config.UserConfigPath()
				if err != nil {
					return err
				}
				path = p
			}

			if _, err := os.Stat(path); err == nil && !force {
				return usageError{fmt.Errorf("%s already exists (use --force to overwrite)", path)}
			}

			cfg := config.DefaultConfig()
			a.flagOverrides(cmd)(cfg)
			if err := cfg.Validate(); err != nil {
				return usageError{fmt.Errorf("invalid flags: %w", err)}
			}
			if err := cfg.Save(path); err != nil {
				return err
			}

			logging.Ctx(cmd.Context()).Info().Str("path", path).Msg("config_written")
			fmt.Fprintf(a.out, "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file, the environment
and global flags have been applied, along with the file it came from.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(cmd.Context(), a.flagOverrides(cmd)); err != nil {
				return err
			}

			source := a.cfgSource
			if source == "" {
				source = "(defaults and environment only)"
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			fmt.Fprintf(a.out, "# source: %s\n%s", source, data)
			return nil
		},
	}
}
