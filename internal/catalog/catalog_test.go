package catalog_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/promptdeck/internal/catalog"
	"github.com/JaimeStill/promptdeck/pkg/routes"
)

func TestModels(t *testing.T) {
	models := catalog.Models()
	if len(models) != 7 {
		t.Fatalf("models: got %d, want 7", len(models))
	}

	models[0].Name = "mutated"
	if catalog.Models()[0].Name != "GPT-4" {
		t.Error("Models should return a copy")
	}
}

func TestFindModel(t *testing.T) {
	tests := []struct {
		id       string
		provider string
		version  string
		temp     float64
		tokens   int
	}{
		{"gpt-4", "OpenAI", "gpt-4-0125-preview", 0.7, 4096},
		{"gemini-pro", "Google", "gemini-1.0-pro-latest", 0.9, 2048},
		{"llama-2-70b", "Meta", "llama-2-70b-chat", 0.8, 2048},
		{"command", "Cohere", "command-r-plus", 0.3, 4000},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			m, err := catalog.FindModel(tt.id)
			if err != nil {
				t.Fatalf("FindModel() error = %v", err)
			}
			if m.Provider != tt.provider || m.Version != tt.version ||
				m.DefaultTemperature != tt.temp || m.DefaultMaxTokens != tt.tokens {
				t.Errorf("got %+v", m)
			}
		})
	}

	if _, err := catalog.FindModel("gpt-5"); !errors.Is(err, catalog.ErrModelNotFound) {
		t.Errorf("unknown model: got %v, want ErrModelNotFound", err)
	}
}

func TestProvidersAndCategories(t *testing.T) {
	want := []string{"OpenAI", "Anthropic", "Google", "Meta", "Cohere"}
	if got := catalog.Providers(); !slices.Equal(got, want) {
		t.Errorf("Providers() = %v, want %v", got, want)
	}

	if got := catalog.Categories(); len(got) != 8 || got[0] != "Customer Service" || got[7] != "SQL & Database" {
		t.Errorf("Categories() = %v", got)
	}
}

func serve(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	opts := catalog.NewOptions([]string{"Active", "Inactive", "Draft"}, []string{"Development"})
	mux := http.NewServeMux()
	routes.Register(mux, catalog.NewHandler(opts, slog.Default()).Routes())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	return rec
}

func TestHandlerModels(t *testing.T) {
	rec := serve(t, "/catalog/models")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var models []catalog.Model
	if err := json.NewDecoder(rec.Body).Decode(&models); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(models) != 7 {
		t.Errorf("models: got %d, want 7", len(models))
	}
}

func TestHandlerModel(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"/catalog/models/claude-3-opus", http.StatusOK},
		{"/catalog/models/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if rec := serve(t, tt.path); rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerOptions(t *testing.T) {
	rec := serve(t, "/catalog/options")

	var opts catalog.Options
	if err := json.NewDecoder(rec.Body).Decode(&opts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(opts.Statuses) != 3 || len(opts.Environments) != 1 || len(opts.Providers) != 5 {
		t.Errorf("options: got %+v", opts)
	}
}
