package latency

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds simulated latency settings per service operation.
type Config struct {
	Enabled bool   `toml:"enabled"`
	List    string `toml:"list"`
	Find    string `toml:"find"`
	Create  string `toml:"create"`
	Update  string `toml:"update"`
	Delete  string `toml:"delete"`
}

// Env maps latency config fields to environment variable names.
type Env struct {
	Enabled string
	List    string
	Find    string
	Create  string
	Update  string
	Delete  string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Enabled always applies.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = overlay.Enabled
	if overlay.List != "" {
		c.List = overlay.List
	}
	if overlay.Find != "" {
		c.Find = overlay.Find
	}
	if overlay.Create != "" {
		c.Create = overlay.Create
	}
	if overlay.Update != "" {
		c.Update = overlay.Update
	}
	if overlay.Delete != "" {
		c.Delete = overlay.Delete
	}
}

func (c *Config) loadDefaults() {
	if c.List == "" {
		c.List = "300ms"
	}
	if c.Find == "" {
		c.Find = "200ms"
	}
	if c.Create == "" {
		c.Create = "400ms"
	}
	if c.Update == "" {
		c.Update = "350ms"
	}
	if c.Delete == "" {
		c.Delete = "300ms"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Enabled = enabled
			}
		}
	}
	overrides := []struct {
		name   string
		target *string
	}{
		{env.List, &c.List},
		{env.Find, &c.Find},
		{env.Create, &c.Create},
		{env.Update, &c.Update},
		{env.Delete, &c.Delete},
	}
	for _, o := range overrides {
		if o.name == "" {
			continue
		}
		if v := os.Getenv(o.name); v != "" {
			*o.target = v
		}
	}
}

func (c *Config) validate() error {
	fields := map[string]string{
		"list":   c.List,
		"find":   c.Find,
		"create": c.Create,
		"update": c.Update,
		"delete": c.Delete,
	}
	for name, value := range fields {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}
