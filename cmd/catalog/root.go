package main

import (
	"github.com/spf13/cobra"

	"assetcatalog/internal/config"
	"assetcatalog/internal/logging"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "catalog",
		Short: "Manage catalog entities and the asset files they own",
		Long: `catalog keeps entity records and their uploaded asset files in agreement.

Records live in SQLite (default) or MongoDB. Asset files live under the
configured asset root. Every write that could strand files cleans up after
itself when the record write fails.

Configuration is read from defaults, then a YAML file, then the environment
(UPLOAD_DEST, MONGO_URI, DB_DRIVER, ...). Flags override all of them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.command = cmd.Name()
			ctx := logging.ContextWithNewCorrelationID(cmd.Context())
			cmd.SetContext(ctx)

			return a.setup(ctx, a.flagOverrides(cmd))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: search $CATALOG_CONFIG, ./catalog.yaml, XDG dirs)")
	pf.StringVar(&a.driver, "driver", "", "record store driver: sqlite or mongo")
	pf.StringVar(&a.dbPath, "db", "", "sqlite database path, or mongo URI with --driver mongo")
	pf.StringVar(&a.assetRoot, "assets", "", "asset root directory")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVarP(&a.format, "format", "o", "table", "output format: table, json, yaml")
	pf.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	root.AddCommand(
		newCreateCmd(a),
		newImportCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newConfigCmd(a),
	)

	return root
}

// flagOverrides applies the global flags the user actually set
func (a *app) flagOverrides(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("driver") {
			cfg.Database.Driver = a.driver
		}
		if flags.Changed("db") {
			if cfg.Database.Driver == config.DriverMongo {
				cfg.Database.MongoURI = a.dbPath
			} else {
				cfg.Database.Path = a.dbPath
			}
		}
		if flags.Changed("assets") {
			cfg.Assets.Root = a.assetRoot
		}
		if flags.Changed("log-level") {
			cfg.Logging.Level = a.logLevel
		}
	}
}

// exactArgs is cobra.ExactArgs reported as a usage error
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
