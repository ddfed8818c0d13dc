// Package config loads the root service configuration from TOML files with
// environment-specific overlays and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/Infernos444/insurely/internal/auth"
	"github.com/Infernos444/insurely/internal/enrichment"
	"github.com/Infernos444/insurely/internal/estimates"
	"github.com/Infernos444/insurely/pkg/database"
	"github.com/Infernos444/insurely/pkg/docstore"
	"github.com/Infernos444/insurely/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvInsurelyEnv             = "INSURELY_ENV"
	EnvInsurelyShutdownTimeout = "INSURELY_SHUTDOWN_TIMEOUT"
	EnvInsurelyVersion         = "INSURELY_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "INSURELY_DB_HOST",
	Port:            "INSURELY_DB_PORT",
	Name:            "INSURELY_DB_NAME",
	User:            "INSURELY_DB_USER",
	Password:        "INSURELY_DB_PASSWORD",
	SSLMode:         "INSURELY_DB_SSL_MODE",
	MaxOpenConns:    "INSURELY_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "INSURELY_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "INSURELY_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "INSURELY_DB_CONN_TIMEOUT",
}

var docstoreEnv = &docstore.Env{
	Host:     "INSURELY_DOCSTORE_HOST",
	Port:     "INSURELY_DOCSTORE_PORT",
	Name:     "INSURELY_DOCSTORE_NAME",
	User:     "INSURELY_DOCSTORE_USER",
	Password: "INSURELY_DOCSTORE_PASSWORD",
	SSLMode:  "INSURELY_DOCSTORE_SSL_MODE",
	Channel:  "INSURELY_DOCSTORE_CHANNEL",
}

var storageEnv = &storage.Env{
	ContainerName:    "INSURELY_STORAGE_CONTAINER_NAME",
	ConnectionString: "INSURELY_STORAGE_CONNECTION_STRING",
	MaxListSize:      "INSURELY_STORAGE_MAX_LIST_SIZE",
}

var authEnv = &auth.Env{
	Issuer:   "INSURELY_AUTH_ISSUER",
	ClientID: "INSURELY_AUTH_CLIENT_ID",
}

var enrichmentEnv = &enrichment.Env{
	PollInterval: "INSURELY_ENRICHMENT_POLL_INTERVAL",
	Timeout:      "INSURELY_ENRICHMENT_TIMEOUT",
}

var estimatesEnv = &estimates.Env{
	MaxStored: "INSURELY_ESTIMATES_MAX_STORED",
}

// Config is the root configuration for the Insurely service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Docstore        docstore.Config   `toml:"docstore"`
	Storage         storage.Config    `toml:"storage"`
	Auth            auth.Config       `toml:"auth"`
	Enrichment      enrichment.Config `toml:"enrichment"`
	Estimates       estimates.Config  `toml:"estimates"`
	API             APIConfig         `toml:"api"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the INSURELY_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvInsurelyEnv); env != "" {
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
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
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

	if err := cfg.finalize(); err != nil {
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
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Docstore.Merge(&overlay.Docstore)
	c.Storage.Merge(&overlay.Storage)
	c.Auth.Merge(&overlay.Auth)
	c.Enrichment.Merge(&overlay.Enrichment)
	c.Estimates.Merge(&overlay.Estimates)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Docstore.Finalize(docstoreEnv); err != nil {
		return fmt.Errorf("docstore: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Enrichment.Finalize(enrichmentEnv); err != nil {
		return fmt.Errorf("enrichment: %w", err)
	}
	if err := c.Estimates.Finalize(estimatesEnv); err != nil {
		return fmt.Errorf("estimates: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
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
	if v := os.Getenv(EnvInsurelyShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvInsurelyVersion); v != "" {
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
	if env := os.Getenv(EnvInsurelyEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
