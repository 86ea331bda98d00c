// Package config reads crepbook's environment configuration.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Paths   PathConfig
	IPC     IPCConfig
	Logging LogConfig
}

// PathConfig locates the application directory and the vault.
type PathConfig struct {
	// ConfigDir overrides <user config dir>/crepbook.
	ConfigDir string `envconfig:"CREPBOOK_CONFIG_DIR"`
	// Root confines filesystem operations to a vault directory.
	Root string `envconfig:"CREPBOOK_ROOT"`
	// Journal enables the mutation journal.
	Journal bool `envconfig:"CREPBOOK_JOURNAL" default:"false"`
}

// IPCConfig holds the IPC bridge listener configuration.
type IPCConfig struct {
	Addr string `envconfig:"CREPBOOK_IPC_ADDR" default:"127.0.0.1:7410"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"warn"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		IPC: IPCConfig{
			Addr: "127.0.0.1:7410",
		},
		Logging: LogConfig{
			Level:       "warn",
			Development: false,
		},
	}
}
