package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"assetcatalog/internal/assets"
	"assetcatalog/internal/config"
	"assetcatalog/internal/logging"
	"assetcatalog/internal/repository"
	"assetcatalog/internal/repository/mongo"
	"assetcatalog/internal/repository/sqlite"
	"assetcatalog/internal/service"
)

// app holds everything a command needs once configuration is loaded
type app struct {
	// flags
	configPath  string
	driver      string
	dbPath      string
	assetRoot   string
	logLevel    string
	format      string
	metricsFile string

	command string
	out     io.Writer

	cfg       *config.Config
	cfgSource string
	repo      repository.EntityRepository
	store     *assets.Store
	uploader  *assets.Uploader
	catalog   *service.CatalogService
	events    chan service.Event
	done      chan struct{}
}

// setup loads configuration and opens the record store
func (a *app) setup(ctx context.Context, overrides func(*config.Config)) error {
	if err := a.loadConfig(ctx, overrides); err != nil {
		return err
	}
	cfg := a.cfg

	repo, err := openRepository(ctx, cfg.Database)
	if err != nil {
		return err
	}
	a.repo = repo

	a.store = assets.New(cfg.Assets.Root, cfg.Assets.DeleteConcurrency)
	a.uploader = assets.NewUploader(a.store, assets.UploaderConfig{
		Folder:       cfg.Assets.Folder,
		MaxBytes:     cfg.Assets.MaxUploadBytes,
		AllowedTypes: cfg.Assets.AllowedTypes,
	})

	// Events are only traced; the CLI has no subscribers beyond the log
	bus := service.NewEventBus()
	a.events = make(chan service.Event, 100)
	a.done = make(chan struct{})
	bus.Subscribe(a.events)
	go func() {
		defer close(a.done)
		for ev := range a.events {
			logging.Ctx(ctx).Debug().
				Str("event", string(ev.Type)).
				Interface("payload", ev.Payload).
				Msg("catalog_event")
		}
	}()

	a.catalog = service.NewCatalogService(a.repo, a.store, bus)
	return nil
}

// loadConfig layers flags over the loaded configuration and starts logging
func (a *app) loadConfig(ctx context.Context, overrides func(*config.Config)) error {
	cfg, path, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	overrides(cfg)
	if err := cfg.Validate(); err != nil {
		return usageError{fmt.Errorf("invalid flags: %w", err)}
	}
	a.cfg = cfg
	a.cfgSource = path

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})
	logging.Ctx(ctx).Debug().
		Str("config", path).
		Str("driver", cfg.Database.Driver).
		Str("asset_root", cfg.Assets.Root).
		Msg("config_loaded")
	return nil
}

func openRepository(ctx context.Context, db config.DatabaseConfig) (repository.EntityRepository, error) {
	switch db.Driver {
	case config.DriverMongo:
		repo, err := mongo.Open(ctx, db.MongoURI, db.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		return repo, nil
	default:
		repo, err := sqlite.New(db.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store %s: %w", db.Path, err)
		}
		return repo, nil
	}
}

// close releases the store and flushes metrics. Safe when setup never ran.
func (a *app) close() {
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			logging.Warn().Err(err).Msg("store_close_failed")
		}
	}
	if a.events != nil {
		close(a.events)
		<-a.done
	}
	if a.metricsFile != "" {
		if err := prometheus.WriteToTextfile(a.metricsFile, prometheus.DefaultGatherer); err != nil {
			logging.Warn().Err(err).Str("path", a.metricsFile).Msg("metrics_write_failed")
		}
	}
}
