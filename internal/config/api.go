package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/promptdeck/pkg/formatting"
	"github.com/JaimeStill/promptdeck/pkg/latency"
	"github.com/JaimeStill/promptdeck/pkg/middleware"
	"github.com/JaimeStill/promptdeck/pkg/pagination"
)

const (
	EnvAPIBasePath    = "PROMPTDECK_API_BASE_PATH"
	EnvAPIMaxBodySize = "PROMPTDECK_API_MAX_BODY_SIZE"

	defaultMaxBodySize = 1024 * 1024
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "PROMPTDECK_CORS_ENABLED",
	Origins:          "PROMPTDECK_CORS_ORIGINS",
	AllowedMethods:   "PROMPTDECK_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "PROMPTDECK_CORS_ALLOWED_HEADERS",
	AllowCredentials: "PROMPTDECK_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "PROMPTDECK_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "PROMPTDECK_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "PROMPTDECK_PAGINATION_MAX_PAGE_SIZE",
}

var latencyEnv = &latency.Env{
	Enabled: "PROMPTDECK_LATENCY_ENABLED",
	List:    "PROMPTDECK_LATENCY_LIST",
	Find:    "PROMPTDECK_LATENCY_FIND",
	Create:  "PROMPTDECK_LATENCY_CREATE",
	Update:  "PROMPTDECK_LATENCY_UPDATE",
	Delete:  "PROMPTDECK_LATENCY_DELETE",
}

// APIConfig holds API routing, request limits, CORS, pagination,
// and simulated latency settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
	Latency     latency.Config        `toml:"latency"`
}

// MaxBodySizeBytes parses MaxBodySize, falling back to 1MB.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil || size <= 0 {
		return defaultMaxBodySize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Latency.Finalize(latencyEnv); err != nil {
		return fmt.Errorf("latency: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.Latency.Merge(&overlay.Latency)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxBodySize); v != "" {
		c.MaxBodySize = v
	}
}
