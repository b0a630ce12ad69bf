// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, metrics, storage, database, and the
// prompt store) that domain systems require.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JaimeStill/promptdeck/internal/config"
	"github.com/JaimeStill/promptdeck/internal/prompts"
	"github.com/JaimeStill/promptdeck/pkg/database"
	"github.com/JaimeStill/promptdeck/pkg/lifecycle"
	"github.com/JaimeStill/promptdeck/pkg/middleware"
	"github.com/JaimeStill/promptdeck/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Database is nil unless the postgres store backend is selected. Metrics and
// Registry are nil when metrics are disabled.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
	Database  database.System
	Store     prompts.Store
	Metrics   *middleware.Metrics
	Registry  *prometheus.Registry

	slot *prompts.SlotStore
}

// New creates an Infrastructure from the application configuration, logging to stderr.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter behaves like New but writes log output to w.
func NewWithWriter(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := NewLogger(&cfg.Logging, w)

	slot, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Storage:   slot,
	}

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
		infra.Store = prompts.NewPostgresStore(db.Connection(), logger)
	default:
		var seed []byte
		if cfg.Store.SeedEnabled() {
			seed = prompts.SeedData()
		}
		infra.slot = prompts.NewSlotStore(slot, cfg.Store.SlotKey, seed, logger)
		infra.Store = infra.slot
	}

	if cfg.Metrics.IsEnabled() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		metrics, err := middleware.NewMetrics(cfg.Metrics.Namespace, reg)
		if err != nil {
			return nil, fmt.Errorf("metrics init failed: %w", err)
		}
		infra.Registry = reg
		infra.Metrics = metrics
	}

	return infra, nil
}

// NewLogger builds the root logger from the logging config.
func NewLogger(cfg *config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	if cfg.Format == config.FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Storage, database, and slot store hooks are registered for startup and
// shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.slot != nil {
		i.slot.Start(i.Lifecycle)
	}
	return nil
}
