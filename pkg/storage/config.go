package storage

import (
	"fmt"
	"os"
	"slices"
	"strconv"
)

// Supported storage drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverAzure  = "azure"
)

var drivers = []string{DriverMemory, DriverFile, DriverRedis, DriverAzure}

// Config selects a slot driver and holds the settings for each.
// Only the fields of the selected driver are validated.
type Config struct {
	Driver           string `toml:"driver"`
	Directory        string `toml:"directory"`
	RedisAddr        string `toml:"redis_addr"`
	RedisPassword    string `toml:"redis_password"`
	RedisDB          int    `toml:"redis_db"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Driver           string
	Directory        string
	RedisAddr        string
	RedisPassword    string
	RedisDB          string
	ContainerName    string
	ConnectionString string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
	if overlay.Directory != "" {
		c.Directory = overlay.Directory
	}
	if overlay.RedisAddr != "" {
		c.RedisAddr = overlay.RedisAddr
	}
	if overlay.RedisPassword != "" {
		c.RedisPassword = overlay.RedisPassword
	}
	if overlay.RedisDB != 0 {
		c.RedisDB = overlay.RedisDB
	}
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
}

func (c *Config) loadDefaults() {
	if c.Driver == "" {
		c.Driver = DriverFile
	}
	if c.Directory == "" {
		c.Directory = ".data"
	}
	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}
	if c.ContainerName == "" {
		c.ContainerName = "promptdeck"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Driver != "" {
		if v := os.Getenv(env.Driver); v != "" {
			c.Driver = v
		}
	}
	if env.Directory != "" {
		if v := os.Getenv(env.Directory); v != "" {
			c.Directory = v
		}
	}
	if env.RedisAddr != "" {
		if v := os.Getenv(env.RedisAddr); v != "" {
			c.RedisAddr = v
		}
	}
	if env.RedisPassword != "" {
		if v := os.Getenv(env.RedisPassword); v != "" {
			c.RedisPassword = v
		}
	}
	if env.RedisDB != "" {
		if v := os.Getenv(env.RedisDB); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.RedisDB = n
			}
		}
	}
	if env.ContainerName != "" {
		if v := os.Getenv(env.ContainerName); v != "" {
			c.ContainerName = v
		}
	}
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
}

func (c *Config) validate() error {
	if !slices.Contains(drivers, c.Driver) {
		return fmt.Errorf("%w: %s", ErrUnknownDriver, c.Driver)
	}

	switch c.Driver {
	case DriverFile:
		if c.Directory == "" {
			return fmt.Errorf("directory required")
		}
	case DriverRedis:
		if c.RedisDB < 0 {
			return fmt.Errorf("redis_db must not be negative")
		}
	case DriverAzure:
		if c.ContainerName == "" {
			return fmt.Errorf("container_name required")
		}
		if c.ConnectionString == "" {
			return fmt.Errorf("connection_string required")
		}
	}
	return nil
}
