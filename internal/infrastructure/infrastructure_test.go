package infrastructure_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/promptdeck/internal/config"
	"github.com/JaimeStill/promptdeck/internal/infrastructure"
	"github.com/JaimeStill/promptdeck/pkg/database"
	"github.com/JaimeStill/promptdeck/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func enabled(v bool) *bool { return &v }

func validConfig() *config.Config {
	return &config.Config{
		Logging: config.LoggingConfig{Level: "info", Format: config.FormatText},
		Store: config.StoreConfig{
			Backend: config.BackendSlot,
			SlotKey: "prompts",
		},
		Storage: storage.Config{Driver: storage.DriverMemory},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "promptdeck",
			User:            "promptdeck",
			Password:        "promptdeck",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Metrics: config.MetricsConfig{Path: "/metrics", Namespace: "promptdeck"},
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.NewWithWriter(validConfig(), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
	if infra.Store == nil {
		t.Error("Store is nil")
	}
	if infra.Database != nil {
		t.Error("Database should be nil for the slot backend")
	}
	if infra.Metrics == nil || infra.Registry == nil {
		t.Error("metrics should be enabled by default")
	}
}

func TestNewMetricsDisabled(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics.Enabled = enabled(false)

	infra, err := infrastructure.NewWithWriter(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Metrics != nil || infra.Registry != nil {
		t.Error("metrics should be nil when disabled")
	}
}

func TestNewPostgresBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Backend = config.BackendPostgres

	infra, err := infrastructure.NewWithWriter(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Database == nil {
		t.Fatal("Database is nil for the postgres backend")
	}
	if infra.Store == nil {
		t.Fatal("Store is nil")
	}
	infra.Database.Connection().Close()
}

func TestNewAzureStorage(t *testing.T) {
	cfg := validConfig()
	cfg.Storage = storage.Config{
		Driver:           storage.DriverAzure,
		ContainerName:    "promptdeck",
		ConnectionString: azuriteConnString,
	}

	if _, err := infrastructure.NewWithWriter(cfg, &bytes.Buffer{}); err != nil {
		t.Fatalf("New() error = %v", err)
	}
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Storage = storage.Config{
		Driver:           storage.DriverAzure,
		ContainerName:    "promptdeck",
		ConnectionString: "not-a-connection-string",
	}

	if _, err := infrastructure.NewWithWriter(cfg, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}

func TestStartSeedsSlot(t *testing.T) {
	infra, err := infrastructure.NewWithWriter(validConfig(), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	infra.Lifecycle.WaitForStartup()
	t.Cleanup(func() { infra.Lifecycle.Shutdown(time.Second) })

	if !infra.Lifecycle.Ready() {
		t.Errorf("lifecycle not ready: %v", infra.Lifecycle.Status())
	}

	records, err := infra.Store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) == 0 {
		t.Error("expected seeded records")
	}

	ok, err := infra.Storage.Exists(context.Background(), "prompts")
	if err != nil || !ok {
		t.Errorf("slot not written: exists=%v err=%v", ok, err)
	}
}

func TestStartWithoutSeed(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Seed = enabled(false)

	infra, err := infrastructure.NewWithWriter(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	infra.Lifecycle.WaitForStartup()

	records, err := infra.Store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.LoggingConfig
		debug  bool
		isJSON bool
	}{
		{"text info", config.LoggingConfig{Level: "info", Format: config.FormatText}, false, false},
		{"json debug", config.LoggingConfig{Level: "debug", Format: config.FormatJSON}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := infrastructure.NewLogger(&tt.cfg, &buf)

			if got := logger.Enabled(context.Background(), slog.LevelDebug); got != tt.debug {
				t.Errorf("debug enabled = %v, want %v", got, tt.debug)
			}

			logger.Info("hello", "key", "value")
			line := strings.TrimSpace(buf.String())

			var decoded map[string]any
			isJSON := json.Unmarshal([]byte(line), &decoded) == nil
			if isJSON != tt.isJSON {
				t.Errorf("json output = %v, want %v: %s", isJSON, tt.isJSON, line)
			}
			if !strings.Contains(line, "hello") {
				t.Errorf("missing message: %s", line)
			}
		})
	}
}
