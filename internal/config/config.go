// Package config resolves the database file location.
//
// Resolution order: --db flag, BABYRS_DB environment variable,
// db_path from the YAML config file, built-in default under the
// user's data directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvDBPath overrides the database location when set.
const EnvDBPath = "BABYRS_DB"

// Config is the on-disk YAML configuration.
type Config struct {
	DBPath string `yaml:"db_path"`
}

// ResolveDBPath returns the database path to use, given the --db flag
// value (empty if unset). The parent directory of the resolved path
// is created if missing so first launch works out of the box.
func ResolveDBPath(flagValue string) (string, error) {
	path, err := resolve(flagValue)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create database directory: %w", err)
	}

	return path, nil
}

func resolve(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if env := os.Getenv(EnvDBPath); env != "" {
		return env, nil
	}

	cfg, err := loadFile(DefaultConfigPath())
	if err != nil {
		return "", err
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}

	return DefaultDBPath(), nil
}

// DefaultConfigPath returns the config file location, honoring
// XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "babyrs", "config.yaml")
}

// DefaultDBPath returns the database location used when nothing else
// is configured, honoring XDG_DATA_HOME.
func DefaultDBPath() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "babyrs", "babyrs.db")
}

// loadFile parses the YAML config file. A missing file is not an
// error; a malformed one is.
func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}
