// Package storage provides named key-value slots holding whole serialized
// values. Drivers: in-process memory, local files, Redis, and Azure Blob Storage.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/promptdeck/pkg/lifecycle"
)

// System reads and writes complete values stored under named keys.
// Writes replace the full value; there are no partial updates.
type System interface {
	// Start registers lifecycle hooks for the driver (connection checks, cleanup).
	Start(lc *lifecycle.Coordinator) error
	// Read returns the value stored at key. Returns ErrNotFound if the slot is absent.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write replaces the value stored at key.
	Write(ctx context.Context, key string, data []byte) error
	// Delete removes the slot at key. Returns ErrNotFound if the slot is absent.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a slot exists at key.
	Exists(ctx context.Context, key string) (bool, error)
}

// New creates the storage system selected by cfg.Driver.
// Network drivers do not connect until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "storage", "driver", cfg.Driver)

	switch cfg.Driver {
	case DriverMemory:
		return NewMemory(logger), nil
	case DriverFile:
		return NewFile(cfg.Directory, logger)
	case DriverRedis:
		return NewRedis(cfg, logger), nil
	case DriverAzure:
		return NewAzure(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return ErrInvalidKey
	}
	return nil
}
