package scalar_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/promptdeck/pkg/module"
	"github.com/JaimeStill/promptdeck/web/scalar"
)

func TestNewModule(t *testing.T) {
	m := scalar.NewModule("/scalar", "/api/openapi.json")
	if m.Prefix() != "/scalar" {
		t.Errorf("Prefix() = %q, want /scalar", m.Prefix())
	}

	router := module.NewRouter()
	router.Mount(m)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/scalar/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := rec.Body.String(); !strings.Contains(body, `data-url="/api/openapi.json"`) {
		t.Errorf("body missing spec url: %s", body)
	}
}

func TestUnknownAsset(t *testing.T) {
	router := module.NewRouter()
	router.Mount(scalar.NewModule("/scalar", "/api/openapi.json"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/scalar/missing.js", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
