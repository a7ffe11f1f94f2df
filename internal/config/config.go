// Package config provides configuration management for the catalog.
//
// Configuration is layered, later layers winning:
//  1. Built-in defaults
//  2. YAML config file (see FindConfigPath)
//  3. Environment variables (see envMappings)
//
// Config file locations (priority order):
//  1. $CATALOG_CONFIG
//  2. ./catalog.yaml
//  3. <user config dir>/catalog/config.yaml
//  4. /etc/catalog/config.yaml
//
// Relative database.path and assets.root values in a config file are
// resolved against the file's directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"assetcatalog/internal/assets"
)

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:        DriverSQLite,
			Path:          "./catalog.db",
			MongoDatabase: "catalog",
		},
		Assets: AssetsConfig{
			Root:              assets.DefaultMarker,
			Folder:            assets.DefaultFolder,
			MaxUploadBytes:    assets.DefaultMaxBytes,
			AllowedTypes:      append([]string(nil), assets.DefaultAllowedTypes...),
			DeleteConcurrency: assets.DefaultDeleteConcurrency,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the config file and the
// environment. An explicit path overrides the file search. It returns the
// config file used, or "" when none was found.
func Load(explicitPath string) (*Config, string, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, "", fmt.Errorf("load defaults: %w", err)
	}

	// Layer 2: config file (optional unless explicit)
	path := explicitPath
	if path == "" {
		path = FindConfigPath()
	} else if !fileExists(path) {
		return nil, path, fmt.Errorf("config file %s not found", path)
	}
	if path != "" {
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, path, fmt.Errorf("load config file %s: %w", path, err)
		}
		if err := anchorPaths(fk, path); err != nil {
			return nil, path, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Merge(fk); err != nil {
			return nil, path, fmt.Errorf("merge config file %s: %w", path, err)
		}
	}

	// Layer 3: environment
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, path, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, path, fmt.Errorf("process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, path, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, path, nil
}

// Save writes config to path, creating its directory
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the catalog cannot run with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case DriverMongo:
		if strings.TrimSpace(c.Database.MongoURI) == "" {
			return fmt.Errorf("database.mongo_uri is required for the mongo driver")
		}
	default:
		return fmt.Errorf("unknown database.driver %q (want %s or %s)", c.Database.Driver, DriverSQLite, DriverMongo)
	}

	if strings.TrimSpace(c.Assets.Root) == "" {
		return fmt.Errorf("assets.root is required")
	}
	if c.Assets.MaxUploadBytes <= 0 {
		return fmt.Errorf("assets.max_upload_bytes must be positive")
	}
	if c.Assets.DeleteConcurrency <= 0 {
		return fmt.Errorf("assets.delete_concurrency must be positive")
	}
	if len(c.Assets.AllowedTypes) == 0 {
		return fmt.Errorf("assets.allowed_types must not be empty")
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}

	return nil
}

// envMappings maps environment variables (lowercased) to config paths
var envMappings = map[string]string{
	"db_driver":                "database.driver",
	"db_path":                  "database.path",
	"mongo_uri":                "database.mongo_uri",
	"mongo_database":           "database.mongo_database",
	"upload_dest":              "assets.root",
	"upload_folder":            "assets.folder",
	"upload_max_bytes":         "assets.max_upload_bytes",
	"upload_allowed_types":     "assets.allowed_types",
	"asset_delete_concurrency": "assets.delete_concurrency",
	"log_level":                "logging.level",
	"log_format":               "logging.format",
	"log_caller":               "logging.caller",
}

// envTransformFunc maps a known environment variable to its config path.
// Unknown variables return "" and are ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// sliceConfigPaths lists paths that arrive from the environment as
// comma-separated strings
var sliceConfigPaths = []string{
	"assets.allowed_types",
}

// processSliceFields converts comma-separated string values to slices
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}
