package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/v2"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "CATALOG_CONFIG"
	// ConfigFileName is looked for in the working directory
	ConfigFileName = "catalog.yaml"
	// ConfigDirName is the directory under the user and system config roots
	ConfigDirName = "catalog"

	configFile = "config.yaml"
)

// candidatePaths lists where a config file may live, highest priority first:
// $CATALOG_CONFIG, ./catalog.yaml, <user config dir>/catalog/config.yaml and
// /etc/catalog/config.yaml. The user config dir follows os.UserConfigDir, so
// $XDG_CONFIG_HOME wins over ~/.config on Linux.
func candidatePaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, ConfigFileName)
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, ConfigDirName, configFile))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, configFile))
}

// FindConfigPath returns the first existing candidate as an absolute path,
// or "" when there is none.
func FindConfigPath() string {
	for _, p := range candidatePaths() {
		if !fileExists(p) {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	return ""
}

// UserConfigPath is where `catalog config init` writes without --config
func UserConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(dir, ConfigDirName, configFile), nil
}

// fileRelativeKeys are path settings that, when written in a config file,
// are relative to that file rather than to the working directory
var fileRelativeKeys = []string{
	"database.path",
	"assets.root",
}

// anchorPaths rewrites relative path settings loaded from configPath so a
// catalog.yaml keeps pointing at the same database and asset root no matter
// where the CLI is started from
func anchorPaths(k *koanf.Koanf, configPath string) error {
	dir := filepath.Dir(configPath)
	for _, key := range fileRelativeKeys {
		v := k.String(key)
		if v == "" || filepath.IsAbs(v) {
			continue
		}
		if err := k.Set(key, filepath.Join(dir, v)); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
