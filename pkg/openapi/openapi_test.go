package openapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/promptdeck/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Test API" || spec.Info.Version != "1.0.0" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if spec.Components == nil || spec.Paths == nil {
		t.Fatal("components and paths should be initialized")
	}

	spec.AddServer("http://localhost:8080")
	spec.SetDescription("A test API")

	if len(spec.Servers) != 1 || spec.Servers[0].URL != "http://localhost:8080" {
		t.Errorf("servers: got %+v", spec.Servers)
	}
	if spec.Info.Description != "A test API" {
		t.Errorf("description: got %s", spec.Info.Description)
	}
}

func TestAddOperation(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")

	get := &openapi.Operation{Summary: "Find"}
	put := &openapi.Operation{Summary: "Update"}
	spec.AddOperation("GET", "/prompts/{id}", get)
	spec.AddOperation("put", "/prompts/{id}", put)
	spec.AddOperation("PATCH", "/ignored", &openapi.Operation{})

	item := spec.Paths["/prompts/{id}"]
	if item == nil {
		t.Fatal("path not added")
	}
	if item.Get != get || item.Put != put {
		t.Errorf("operations not attached: %+v", item)
	}
	if _, ok := spec.Paths["/ignored"]; ok {
		t.Error("unsupported method should not create a path")
	}
}

func TestAddTag(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.AddTag("Prompts", "")
	spec.AddTag("Prompts", "Prompt records")
	spec.AddTag("Prompts", "ignored")

	if len(spec.Tags) != 1 {
		t.Fatalf("tags: got %d, want 1", len(spec.Tags))
	}
	if spec.Tags[0].Description != "Prompt records" {
		t.Errorf("description: got %q", spec.Tags[0].Description)
	}
}

func TestRefs(t *testing.T) {
	if ref := openapi.SchemaRef("Record").Ref; ref != "#/components/schemas/Record" {
		t.Errorf("SchemaRef: got %s", ref)
	}
	if ref := openapi.ResponseRef("NotFound").Ref; ref != "#/components/responses/NotFound" {
		t.Errorf("ResponseRef: got %s", ref)
	}

	arr := openapi.ArrayOf("Snapshot")
	if arr.Type != "array" || arr.Items.Ref != "#/components/schemas/Snapshot" {
		t.Errorf("ArrayOf: got %+v", arr)
	}
}

func TestRequestAndResponseJSON(t *testing.T) {
	rb := openapi.RequestBodyJSON("CreateCommand", true)
	if !rb.Required {
		t.Error("required should be true")
	}
	if got := rb.Content["application/json"].Schema.Ref; got != "#/components/schemas/CreateCommand" {
		t.Errorf("request schema ref: got %s", got)
	}

	resp := openapi.ResponseJSON("Success", "Record")
	if resp.Description != "Success" {
		t.Errorf("description: got %s", resp.Description)
	}
	if got := resp.Content["application/json"].Schema.Ref; got != "#/components/schemas/Record" {
		t.Errorf("response schema ref: got %s", got)
	}
}

func TestParams(t *testing.T) {
	tests := []struct {
		name     string
		param    *openapi.Parameter
		in       string
		typ      string
		required bool
	}{
		{"path", openapi.PathParam("version", "Version label"), "path", "string", true},
		{"id", openapi.IDParam("id", "Prompt ID"), "path", "integer", true},
		{"query", openapi.QueryParam("search", "string", "Search", false), "query", "string", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.param.In != tt.in {
				t.Errorf("in: got %s, want %s", tt.param.In, tt.in)
			}
			if tt.param.Schema.Type != tt.typ {
				t.Errorf("type: got %s, want %s", tt.param.Schema.Type, tt.typ)
			}
			if tt.param.Required != tt.required {
				t.Errorf("required: got %v, want %v", tt.param.Required, tt.required)
			}
		})
	}

	if lo := openapi.IDParam("id", "").Schema.Minimum; lo == nil || *lo != 1 {
		t.Errorf("IDParam minimum: got %v, want 1", lo)
	}
}

func TestNewComponentsDefaults(t *testing.T) {
	c := openapi.NewComponents()

	if _, ok := c.Schemas["PageRequest"]; !ok {
		t.Error("missing default schema: PageRequest")
	}

	for _, name := range []string{"BadRequest", "ValidationFailed", "NotFound", "Conflict"} {
		if _, ok := c.Responses[name]; !ok {
			t.Errorf("missing default response: %s", name)
		}
	}

	fields := c.Responses["ValidationFailed"].Content["application/json"].Schema.Properties["fields"]
	if fields == nil || fields.AdditionalProperties == nil {
		t.Error("ValidationFailed should describe per-field messages")
	}

	c.AddSchemas(map[string]*openapi.Schema{"Record": {Type: "object"}})
	c.AddResponses(map[string]*openapi.Response{"Gone": {Description: "Removed"}})

	if _, ok := c.Schemas["Record"]; !ok {
		t.Error("Record schema not added")
	}
	if _, ok := c.Responses["Gone"]; !ok {
		t.Error("Gone response not added")
	}
}

func TestMarshalAndWriteJSON(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	path := filepath.Join(t.TempDir(), "spec.json")

	if err := openapi.WriteJSON(spec, path); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if parsed["openapi"] != "3.1.0" {
		t.Errorf("openapi: got %v", parsed["openapi"])
	}
}

func TestServeSpec(t *testing.T) {
	data, _ := openapi.MarshalJSON(openapi.NewSpec("Test", "1.0.0"))

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content-type: got %s", ct)
	}

	body, _ := io.ReadAll(res.Body)
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("body unmarshal failed: %v", err)
	}
}

func TestConfig(t *testing.T) {
	cfg := openapi.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.Title != "Promptdeck API" {
		t.Errorf("title: got %s, want Promptdeck API", cfg.Title)
	}

	t.Setenv("TEST_TITLE", "Custom API")
	env := &openapi.ConfigEnv{Title: "TEST_TITLE"}

	override := openapi.Config{}
	if err := override.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if override.Title != "Custom API" {
		t.Errorf("title: got %s, want Custom API", override.Title)
	}

	base := openapi.Config{Title: "Base", Description: "Keep"}
	base.Merge(&openapi.Config{Title: "Overlay"})
	if base.Title != "Overlay" || base.Description != "Keep" {
		t.Errorf("merge: got %+v", base)
	}
}
