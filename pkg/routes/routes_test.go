package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/promptdeck/pkg/openapi"
	"github.com/JaimeStill/promptdeck/pkg/routes"
)

func status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

func testGroup() routes.Group {
	return routes.Group{
		Prefix:      "/prompts",
		Tags:        []string{"Prompts"},
		Description: "Prompt records",
		Schemas: map[string]*openapi.Schema{
			"Record": {Type: "object"},
		},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: status(http.StatusOK), OpenAPI: &openapi.Operation{Summary: "List"}},
			{Method: "GET", Pattern: "/{id}", Handler: status(http.StatusOK), OpenAPI: &openapi.Operation{Summary: "Find", Tags: []string{"Custom"}}},
			{Method: "DELETE", Pattern: "/{id}", Handler: status(http.StatusNoContent)},
		},
		Children: []routes.Group{
			{
				Prefix: "/{id}/versions",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: status(http.StatusAccepted), OpenAPI: &openapi.Operation{Summary: "History"}},
				},
			},
		},
	}
}

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, testGroup())

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"list", "GET", "/prompts", http.StatusOK},
		{"find", "GET", "/prompts/3", http.StatusOK},
		{"delete", "DELETE", "/prompts/3", http.StatusNoContent},
		{"nested child", "GET", "/prompts/3/versions", http.StatusAccepted},
		{"wrong method", "POST", "/prompts/3", http.StatusMethodNotAllowed},
		{"unknown path", "GET", "/other", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestDocument(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	routes.Document(spec, "/api", testGroup())

	list := spec.Paths["/api/prompts"]
	if list == nil || list.Get == nil {
		t.Fatal("GET /api/prompts not documented")
	}
	if len(list.Get.Tags) != 1 || list.Get.Tags[0] != "Prompts" {
		t.Errorf("list tags: got %v, want [Prompts]", list.Get.Tags)
	}

	find := spec.Paths["/api/prompts/{id}"]
	if find == nil || find.Get == nil {
		t.Fatal("GET /api/prompts/{id} not documented")
	}
	if find.Get.Tags[0] != "Custom" {
		t.Errorf("explicit tags should be kept, got %v", find.Get.Tags)
	}
	if find.Delete != nil {
		t.Error("routes without an operation should not be documented")
	}

	if spec.Paths["/api/prompts/{id}/versions"] == nil {
		t.Error("child group route not documented")
	}
	if _, ok := spec.Components.Schemas["Record"]; !ok {
		t.Error("group schemas not added to components")
	}
	if len(spec.Tags) != 1 || spec.Tags[0].Description != "Prompt records" {
		t.Errorf("tags: got %+v", spec.Tags)
	}
}

func TestDocumentDoesNotMutateRoute(t *testing.T) {
	op := &openapi.Operation{Summary: "List"}
	group := routes.Group{
		Prefix: "/x",
		Tags:   []string{"X"},
		Routes: []routes.Route{{Method: "GET", Pattern: "", Handler: status(http.StatusOK), OpenAPI: op}},
	}

	routes.Document(openapi.NewSpec("Test", "1.0.0"), "", group)

	if op.Tags != nil {
		t.Errorf("source operation mutated: %v", op.Tags)
	}
}
