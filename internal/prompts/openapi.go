package prompts

import (
	"maps"
	"net/http"

	"github.com/JaimeStill/promptdeck/pkg/openapi"
)

type spec struct {
	List    *openapi.Operation
	Search  *openapi.Operation
	Find    *openapi.Operation
	Create  *openapi.Operation
	Update  *openapi.Operation
	Delete  *openapi.Operation
	History *openapi.Operation
	Version *openapi.Operation
	Compare *openapi.Operation
	Schemas map[string]*openapi.Schema
}

var idParam = openapi.IDParam("id", "Prompt id")

// Spec documents the prompt endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List prompts",
		Description: "Filtered, sorted, and paginated dashboard listing. Sort defaults to -createdDate.",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Case-insensitive text across name, description, model, provider, tags, category, environment, and URL", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort keys, - prefix for descending", false),
			openapi.QueryParam("model", "string", "Exact model id", false),
			openapi.QueryParam("status", "string", "Active, Inactive, or Draft", false),
			openapi.QueryParam("category", "string", "Exact category", false),
			openapi.QueryParam("provider", "string", "Exact provider", false),
		},
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("Prompt page", "PromptPage"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search prompts",
		RequestBody: openapi.RequestBodyJSON("PromptSearch", true),
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Prompt page", "PromptPage"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Find a prompt",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Prompt", "Prompt"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			http.StatusNotFound:   openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create a prompt",
		Description: "Assigns the next id and records version 1.0.0.",
		RequestBody: openapi.RequestBodyJSON("PromptInput", true),
		Responses: map[int]*openapi.Response{
			http.StatusCreated:    openapi.ResponseJSON("Created prompt", "Prompt"),
			http.StatusBadRequest: openapi.ResponseRef("ValidationFailed"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update a prompt",
		Description: "Diffs against the stored record, bumps the patch version, and appends a snapshot.",
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("PromptInput", true),
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Updated prompt", "Prompt"),
			http.StatusBadRequest: openapi.ResponseRef("ValidationFailed"),
			http.StatusNotFound:   openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:    "Delete a prompt",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			http.StatusNoContent: {Description: "Prompt deleted"},
			http.StatusNotFound:  openapi.ResponseRef("NotFound"),
		},
	},
	History: &openapi.Operation{
		Summary:    "Version history",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			http.StatusOK: {
				Description: "Snapshots, oldest first",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: openapi.ArrayOf("Snapshot")},
				},
			},
			http.StatusNotFound: openapi.ResponseRef("NotFound"),
		},
	},
	Version: &openapi.Operation{
		Summary: "Find a version",
		Parameters: []*openapi.Parameter{
			idParam,
			openapi.PathParam("version", "Version label, e.g. 1.0.2"),
		},
		Responses: map[int]*openapi.Response{
			http.StatusOK:       openapi.ResponseJSON("Snapshot", "Snapshot"),
			http.StatusNotFound: openapi.ResponseRef("NotFound"),
		},
	},
	Compare: &openapi.Operation{
		Summary: "Compare two versions",
		Parameters: []*openapi.Parameter{
			idParam,
			openapi.PathParam("left", "First version label"),
			openapi.PathParam("right", "Second version label"),
		},
		Responses: map[int]*openapi.Response{
			http.StatusOK:       openapi.ResponseJSON("Comparison", "Comparison"),
			http.StatusNotFound: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: schemas(),
}

func schemas() map[string]*openapi.Schema {
	str := func(desc string) *openapi.Schema { return &openapi.Schema{Type: "string", Description: desc} }
	num := func(desc string) *openapi.Schema { return &openapi.Schema{Type: "number", Description: desc} }
	dateTime := &openapi.Schema{Type: "string", Format: "date-time"}
	nullableDate := &openapi.Schema{Type: "string", Format: "date-time", Nullable: true}
	tags := &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}, Description: "Lower-cased, unique"}
	status := &openapi.Schema{Type: "string", Enum: []any{"Active", "Inactive", "Draft"}}
	environment := &openapi.Schema{Type: "string", Enum: []any{"Development", "Staging", "Production"}}

	input := map[string]*openapi.Schema{
		"name":            str("Display name"),
		"description":     str("What the prompt does"),
		"model":           {Type: "string", Example: "gpt-4"},
		"modelVersion":    {Type: "string", Example: "gpt-4-0125-preview"},
		"provider":        {Type: "string", Example: "OpenAI"},
		"temperature":     {Type: "number", Minimum: openapi.Ptr(0.0), Maximum: openapi.Ptr(2.0)},
		"maxTokens":       {Type: "integer", Minimum: openapi.Ptr(100.0), Maximum: openapi.Ptr(8000.0)},
		"status":          status,
		"category":        str("Free text, see /catalog/options for suggestions"),
		"tags":            tags,
		"environment":     environment,
		"deploymentUrl":   {Type: "string", Format: "uri"},
		"deploymentDate":  nullableDate,
		"totalUsage":      {Type: "integer"},
		"successRate":     num("Percentage"),
		"avgResponseTime": num("Milliseconds"),
		"costPerRequest":  num("USD"),
		"totalCost":       num("USD"),
	}

	prompt := map[string]*openapi.Schema{
		"id":             {Type: "integer"},
		"createdDate":    dateTime,
		"updatedDate":    dateTime,
		"currentVersion": {Type: "string", Example: "1.0.2"},
		"versions":       openapi.ArrayOf("Snapshot"),
	}
	maps.Copy(prompt, input)

	withLog := map[string]*openapi.Schema{
		"changeLog": str("Optional note recorded on the new version"),
	}
	withLog["clearDeploymentDate"] = &openapi.Schema{
		Type:        "boolean",
		Description: "Remove the deployment date on update",
	}
	maps.Copy(withLog, input)

	return map[string]*openapi.Schema{
		"Prompt": {Type: "object", Properties: prompt},
		"PromptInput": {
			Type:       "object",
			Properties: withLog,
			Required:   []string{"name", "description", "model", "modelVersion", "provider", "temperature", "maxTokens"},
		},
		"PromptPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        openapi.ArrayOf("Prompt"),
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"PromptSearch": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":      {Type: "integer"},
				"page_size": {Type: "integer"},
				"search":    str("Free text"),
				"sort":      str("Comma-separated sort keys"),
				"model":     str("Exact model id"),
				"status":    status,
				"category":  str("Exact category"),
				"provider":  str("Exact provider"),
			},
		},
		"FieldChange": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"field":    str("Changed field"),
				"oldValue": {Description: "Previous value"},
				"newValue": {Description: "New value"},
			},
		},
		"Snapshot": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"version":     {Type: "string", Example: "1.0.1"},
				"changeLog":   str("Change note"),
				"createdDate": dateTime,
				"changes": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"type":        {Type: "string", Enum: []any{"created", "updated"}},
						"fields":      openapi.ArrayOf("FieldChange"),
						"description": str("Summary of changed fields"),
					},
				},
				"deploymentInfo": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"environment":    environment,
						"deploymentUrl":  {Type: "string"},
						"deploymentDate": nullableDate,
					},
				},
			},
		},
		"Comparison": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"promptId":   {Type: "integer"},
				"promptName": {Type: "string"},
				"left":       openapi.SchemaRef("Snapshot"),
				"right":      openapi.SchemaRef("Snapshot"),
				"rows": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"key":       {Type: "string"},
							"label":     {Type: "string"},
							"kind":      {Type: "string", Enum: []any{"text", "date", "badge", "url"}},
							"left":      {},
							"right":     {},
							"different": {Type: "boolean"},
						},
					},
				},
				"differences": {Type: "integer"},
			},
		},
	}
}
