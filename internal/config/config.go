// Package config loads and finalizes the job configuration from TOML files
// and environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/ONSdigital/survey-assist-themes/pkg/database"
	"github.com/ONSdigital/survey-assist-themes/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvThemesEnv             = "THEMES_ENV"
	EnvThemesShutdownTimeout = "THEMES_SHUTDOWN_TIMEOUT"
	EnvThemesVersion         = "THEMES_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "THEMES_DB_HOST",
	Port:            "THEMES_DB_PORT",
	Name:            "THEMES_DB_NAME",
	User:            "THEMES_DB_USER",
	Password:        "THEMES_DB_PASSWORD",
	SSLMode:         "THEMES_DB_SSL_MODE",
	MaxOpenConns:    "THEMES_DB_MAX_OPEN_CONNS",
	ConnMaxLifetime: "THEMES_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "THEMES_DB_CONN_TIMEOUT",
}

var inputStorageEnv = &storage.Env{
	ContainerName:    "THEMES_STORAGE_INPUT_CONTAINER",
	ConnectionString: "THEMES_STORAGE_CONNECTION_STRING",
}

var outputStorageEnv = &storage.Env{
	ContainerName:    "THEMES_STORAGE_OUTPUT_CONTAINER",
	ConnectionString: "THEMES_STORAGE_CONNECTION_STRING",
}

// Config is the root configuration for the themes job.
type Config struct {
	Database        database.Config      `toml:"database"`
	Input           storage.Config       `toml:"input"`
	Output          storage.Config       `toml:"output"`
	Agent           gaconfig.AgentConfig `toml:"agent"`
	Pipeline        PipelineConfig       `toml:"pipeline"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Version         string               `toml:"version"`
}

// Env returns the THEMES_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvThemesEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Database.Merge(&overlay.Database)
	c.Input.Merge(&overlay.Input)
	c.Output.Merge(&overlay.Output)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.Agent.Merge(&overlay.Agent)
}

// Finalize applies defaults, environment variable overrides, and validation
// across all sub-configs.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Input.Finalize(inputStorageEnv); err != nil {
		return fmt.Errorf("input storage: %w", err)
	}
	if err := c.Output.Finalize(outputStorageEnv); err != nil {
		return fmt.Errorf("output storage: %w", err)
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Pipeline.Finalize(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvThemesShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvThemesVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvThemesEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
