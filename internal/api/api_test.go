package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/promptdeck/internal/api"
	"github.com/JaimeStill/promptdeck/internal/config"
	"github.com/JaimeStill/promptdeck/internal/infrastructure"
	"github.com/JaimeStill/promptdeck/internal/prompts"
	"github.com/JaimeStill/promptdeck/pkg/latency"
	"github.com/JaimeStill/promptdeck/pkg/middleware"
	"github.com/JaimeStill/promptdeck/pkg/module"
	"github.com/JaimeStill/promptdeck/pkg/openapi"
	"github.com/JaimeStill/promptdeck/pkg/pagination"
	"github.com/JaimeStill/promptdeck/pkg/storage"
)

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Logging: config.LoggingConfig{Level: "error", Format: config.FormatText},
		API: config.APIConfig{
			BasePath:    "/api",
			MaxBodySize: "1KB",
			CORS: middleware.CORSConfig{
				Enabled: false,
			},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
			Latency: latency.Config{Enabled: false},
		},
		Store: config.StoreConfig{
			Backend: config.BackendSlot,
			SlotKey: "prompts",
		},
		Storage: storage.Config{Driver: storage.DriverMemory},
		Metrics: config.MetricsConfig{Path: "/metrics", Namespace: "promptdeck"},
		OpenAPI: openapi.Config{
			Title:       "Promptdeck API",
			Description: "test",
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.NewWithWriter(validConfig(), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	return infra
}

func setupRouter(t *testing.T) *module.Router {
	t.Helper()
	m, err := api.NewModule(validConfig(), setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	router := module.NewRouter()
	router.Mount(m)
	return router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNewModule(t *testing.T) {
	m, err := api.NewModule(validConfig(), setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Logger == nil {
		t.Error("runtime logger is nil")
	}
	if runtime.Logger == infra.Logger {
		t.Error("runtime logger should be module scoped")
	}
	if runtime.Store == nil {
		t.Error("runtime store is nil")
	}
	if runtime.Latency != nil {
		t.Error("disabled latency should yield a nil simulator")
	}
}

func TestNewDomain(t *testing.T) {
	domain := api.NewDomain(api.NewRuntime(validConfig(), setupInfra(t)))

	if domain.Prompts == nil {
		t.Fatal("prompts system is nil")
	}
	if len(domain.Catalog.Statuses) != 3 {
		t.Errorf("statuses: got %v", domain.Catalog.Statuses)
	}
	if len(domain.Catalog.Environments) != 3 {
		t.Errorf("environments: got %v", domain.Catalog.Environments)
	}
}

func TestListPrompts(t *testing.T) {
	router := setupRouter(t)

	rec := serve(router, "GET", "/api/prompts?status=Draft&search=support", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}

	var page pagination.PageResult[prompts.Record]
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("total: got %d, want 1", page.Total)
	}
	if page.Data[0].Status != prompts.StatusDraft {
		t.Errorf("status: got %s, want Draft", page.Data[0].Status)
	}
}

func TestCatalogOptions(t *testing.T) {
	rec := serve(setupRouter(t), "GET", "/api/catalog/options", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"Production"`) {
		t.Errorf("options missing environments: %s", rec.Body.String())
	}
}

func TestOpenAPISpec(t *testing.T) {
	rec := serve(setupRouter(t), "GET", "/api/openapi.json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var spec openapi.Spec
	if err := json.NewDecoder(rec.Body).Decode(&spec); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for _, path := range []string{
		"/prompts",
		"/prompts/{id}",
		"/prompts/{id}/compare/{left}/{right}",
		"/catalog/options",
		"/storage/{key}",
	} {
		if _, ok := spec.Paths[path]; !ok {
			t.Errorf("spec missing path %s", path)
		}
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers: got %+v", spec.Servers)
	}
}

func TestStorageInspector(t *testing.T) {
	router := setupRouter(t)

	rec := serve(router, "GET", "/api/storage/prompts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var info api.SlotInfo
	json.NewDecoder(rec.Body).Decode(&info)
	if info.Exists {
		t.Error("slot should not exist before first access")
	}

	serve(router, "GET", "/api/prompts", "")

	rec = serve(router, "GET", "/api/storage/prompts", "")
	json.NewDecoder(rec.Body).Decode(&info)
	if !info.Exists || info.Size == 0 {
		t.Errorf("slot after access: %+v", info)
	}

	rec = serve(router, "GET", "/api/storage/prompts/download", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("download status: got %d, want 200", rec.Code)
	}
	var records []prompts.Record
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatalf("decode slot: %v", err)
	}
	if len(records) == 0 {
		t.Error("expected seeded records in slot")
	}

	rec = serve(router, "GET", "/api/storage/missing/download", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing slot status: got %d, want 404", rec.Code)
	}
}

func TestBodyLimit(t *testing.T) {
	body := `{"name":"` + strings.Repeat("x", 2048) + `"}`

	rec := serve(setupRouter(t), "POST", "/api/prompts", body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413", rec.Code)
	}
}
