// Package config provides configuration management for satstore.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Backend identifiers accepted in configuration.
const (
	BackendAzure = "azure"
	BackendS3    = "s3"
	BackendLocal = "local"
)

// Config is the satstore configuration.
//
// Config file location:
//   - Unix: ~/.config/satstore/config
//   - Windows: %USERPROFILE%\.config\satstore\config
//
// INI format:
//
//	[satstore]
//	backend = azure
//	container = eo-products
//	connection_env = AZURE_STORAGE_CONNECTION_STRING
//	log_level = info
//
//	[satstore.transfer]
//	retries = 1
//	timeout_seconds = 0
//	concurrency = 0
type Config struct {
	// Backend selects the storage backend: azure, s3 or local.
	Backend string `ini:"backend"`

	// Container is the container (Azure), bucket (S3) or directory
	// (local) all operations scope to.
	Container string `ini:"container"`

	// ConnectionEnv names the environment variable holding the backend
	// connection string or endpoint. Empty selects the backend default.
	ConnectionEnv string `ini:"connection_env"`

	// LogLevel is the process log level name (zerolog levels).
	LogLevel string `ini:"log_level"`

	// Transfer holds per-operation settings (separate INI section).
	Transfer TransferConfig `ini:"-"`
}

// TransferConfig contains settings applied to individual transfers.
type TransferConfig struct {
	// Retries is the default per-object retry count after the first
	// failure.
	Retries int `ini:"retries"`

	// TimeoutSeconds bounds each single-object client call. Zero means
	// no per-call deadline.
	TimeoutSeconds int `ini:"timeout_seconds"`

	// Concurrency is the single-object transfer concurrency hint passed
	// through to the backend client. Zero means the client default.
	Concurrency int `ini:"concurrency"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Backend:  BackendAzure,
		LogLevel: "info",
		Transfer: TransferConfig{
			Retries: 1,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "satstore", "config")
}

// Load reads configuration from path, falling back to defaults for a
// missing file. An empty path selects DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := file.Section("satstore").MapTo(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := file.Section("satstore.transfer").MapTo(&cfg.Transfer); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendAzure, BackendS3, BackendLocal:
	default:
		return fmt.Errorf("unknown backend %q (expected %s, %s or %s)",
			c.Backend, BackendAzure, BackendS3, BackendLocal)
	}
	if c.Transfer.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Transfer.Retries)
	}
	if c.Transfer.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got %d", c.Transfer.TimeoutSeconds)
	}
	return nil
}

// Save writes the configuration to path in INI form, creating parent
// directories as needed.
func (c Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return fmt.Errorf("no config path available")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file := ini.Empty()
	if err := file.Section("satstore").ReflectFrom(&c); err != nil {
		return err
	}
	if err := file.Section("satstore.transfer").ReflectFrom(&c.Transfer); err != nil {
		return err
	}
	return file.SaveTo(path)
}
