package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvStoreBackend = "PROMPTDECK_STORE_BACKEND"
	EnvStoreSlotKey = "PROMPTDECK_STORE_SLOT_KEY"
	EnvStoreSeed    = "PROMPTDECK_STORE_SEED"

	BackendSlot     = "slot"
	BackendPostgres = "postgres"

	DefaultSlotKey = "prompt_deploy_prompts"
)

// StoreConfig selects where prompt records are persisted.
// The slot backend keeps the collection as one blob under SlotKey
// in the configured storage driver; postgres uses the database section.
type StoreConfig struct {
	Backend string `toml:"backend"`
	SlotKey string `toml:"slot_key"`
	Seed    *bool  `toml:"seed"`
}

// SeedEnabled reports whether an empty slot is initialized with sample prompts.
func (c *StoreConfig) SeedEnabled() bool {
	return boolOr(c.Seed, true)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *StoreConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *StoreConfig) Merge(overlay *StoreConfig) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.SlotKey != "" {
		c.SlotKey = overlay.SlotKey
	}
	if overlay.Seed != nil {
		c.Seed = overlay.Seed
	}
}

func (c *StoreConfig) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendSlot
	}
	if c.SlotKey == "" {
		c.SlotKey = DefaultSlotKey
	}
}

func (c *StoreConfig) loadEnv() {
	if v := os.Getenv(EnvStoreBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvStoreSlotKey); v != "" {
		c.SlotKey = v
	}
	if v := os.Getenv(EnvStoreSeed); v != "" {
		if seed, err := strconv.ParseBool(v); err == nil {
			c.Seed = &seed
		}
	}
}

func (c *StoreConfig) validate() error {
	switch c.Backend {
	case BackendSlot, BackendPostgres:
		return nil
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
