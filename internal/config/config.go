package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JaimeStill/promptdeck/pkg/database"
	"github.com/JaimeStill/promptdeck/pkg/openapi"
	"github.com/JaimeStill/promptdeck/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvPromptdeckEnv             = "PROMPTDECK_ENV"
	EnvPromptdeckShutdownTimeout = "PROMPTDECK_SHUTDOWN_TIMEOUT"
	EnvPromptdeckVersion         = "PROMPTDECK_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "PROMPTDECK_DB_HOST",
	Port:            "PROMPTDECK_DB_PORT",
	Name:            "PROMPTDECK_DB_NAME",
	User:            "PROMPTDECK_DB_USER",
	Password:        "PROMPTDECK_DB_PASSWORD",
	SSLMode:         "PROMPTDECK_DB_SSL_MODE",
	MaxOpenConns:    "PROMPTDECK_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "PROMPTDECK_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "PROMPTDECK_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "PROMPTDECK_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Driver:           "PROMPTDECK_STORAGE_DRIVER",
	Directory:        "PROMPTDECK_STORAGE_DIRECTORY",
	RedisAddr:        "PROMPTDECK_STORAGE_REDIS_ADDR",
	RedisPassword:    "PROMPTDECK_STORAGE_REDIS_PASSWORD",
	RedisDB:          "PROMPTDECK_STORAGE_REDIS_DB",
	ContainerName:    "PROMPTDECK_STORAGE_CONTAINER_NAME",
	ConnectionString: "PROMPTDECK_STORAGE_CONNECTION_STRING",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "PROMPTDECK_OPENAPI_TITLE",
	Description: "PROMPTDECK_OPENAPI_DESCRIPTION",
}

// Config is the root configuration for the promptdeck service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Logging         LoggingConfig   `toml:"logging"`
	API             APIConfig       `toml:"api"`
	Store           StoreConfig     `toml:"store"`
	Storage         storage.Config  `toml:"storage"`
	Database        database.Config `toml:"database"`
	Metrics         MetricsConfig   `toml:"metrics"`
	OpenAPI         openapi.Config  `toml:"openapi"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the PROMPTDECK_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvPromptdeckEnv); env != "" {
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
	return LoadFrom(".")
}

// LoadFrom behaves like Load but resolves config files relative to dir.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{}

	base := filepath.Join(dir, BaseConfigFile)
	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(dir); path != "" {
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
	c.Logging.Merge(&overlay.Logging)
	c.API.Merge(&overlay.API)
	c.Store.Merge(&overlay.Store)
	c.Storage.Merge(&overlay.Storage)
	c.Database.Merge(&overlay.Database)
	c.Metrics.Merge(&overlay.Metrics)
	c.OpenAPI.Merge(&overlay.OpenAPI)
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
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Store.Finalize(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Metrics.Finalize(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
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
	if c.Database.Name == "" {
		c.Database.Name = "promptdeck"
	}
	if c.Database.User == "" {
		c.Database.User = "promptdeck"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvPromptdeckShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvPromptdeckVersion); v != "" {
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

func overlayPath(dir string) string {
	if env := os.Getenv(EnvPromptdeckEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
