// Package config loads recipebox settings from a YAML file.
package config

import (
	"os"
	"path/filepath"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int              `mapstructure:"config_version" yaml:"config_version"`
	Database      DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Categories    CategoriesConfig `mapstructure:"categories" yaml:"categories"`
	Locale        string           `mapstructure:"locale" yaml:"locale"`
	Logging       LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Metrics       MetricsConfig    `mapstructure:"metrics" yaml:"metrics"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// DatabaseConfig locates the recipe store.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
	// DestructiveMigration drops and recreates the recipe table when the
	// stored schema version does not match.
	DestructiveMigration bool `mapstructure:"destructive_migration" yaml:"destructive_migration"`
}

// CategoriesConfig selects the category asset. An empty Asset uses the
// bundled list.
type CategoriesConfig struct {
	Asset string `mapstructure:"asset" yaml:"asset"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// MetricsConfig controls the Prometheus endpoint served by watch.
// An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Levels lists the accepted logging.level values.
var Levels = []string{"trace", "debug", "info", "warn", "error"}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() (Config, error) {
	dir, err := DefaultStateDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "recipes.db"),
		},
		Locale: "en",
		Logging: LoggingConfig{
			Level: "info",
		},
	}, nil
}

// DefaultStateDir returns the directory holding the database and config.
func DefaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".recipebox"), nil
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
