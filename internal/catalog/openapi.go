package catalog

import (
	"net/http"

	"github.com/JaimeStill/promptdeck/pkg/openapi"
)

type spec struct {
	Models  *openapi.Operation
	Model   *openapi.Operation
	Options *openapi.Operation
	Schemas map[string]*openapi.Schema
}

// Spec documents the catalog endpoints.
var Spec = spec{
	Models: &openapi.Operation{
		Summary: "List catalog models",
		Responses: map[int]*openapi.Response{
			http.StatusOK: {
				Description: "Catalog models",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: openapi.ArrayOf("CatalogModel")},
				},
			},
		},
	},
	Model: &openapi.Operation{
		Summary:    "Find a catalog model",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Catalog model id, e.g. gpt-4")},
		Responses: map[int]*openapi.Response{
			http.StatusOK:       openapi.ResponseJSON("Catalog model", "CatalogModel"),
			http.StatusNotFound: openapi.ResponseRef("NotFound"),
		},
	},
	Options: &openapi.Operation{
		Summary:     "Editor options",
		Description: "Models, categories, providers, statuses, and environments offered by the editor.",
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("Editor options", "CatalogOptions"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"CatalogModel": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                 {Type: "string", Example: "gpt-4"},
				"name":               {Type: "string", Example: "GPT-4"},
				"provider":           {Type: "string", Example: "OpenAI"},
				"version":            {Type: "string", Example: "gpt-4-0125-preview"},
				"defaultTemperature": {Type: "number", Example: 0.7},
				"defaultMaxTokens":   {Type: "integer", Example: 4096},
			},
		},
		"CatalogOptions": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"models":       openapi.ArrayOf("CatalogModel"),
				"categories":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"providers":    {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"statuses":     {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"environments": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
	},
}
