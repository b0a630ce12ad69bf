package openapi

import "maps"

func errorBody(description string, withFields bool) *Response {
	props := map[string]*Schema{
		"error": {Type: "string", Description: "Error message"},
	}
	if withFields {
		props["fields"] = &Schema{
			Type:                 "object",
			Description:          "Per-field validation messages",
			AdditionalProperties: &Schema{Type: "string"},
		}
	}

	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {
				Schema: &Schema{Type: "object", Properties: props, Required: []string{"error"}},
			},
		},
	}
}

// NewComponents creates Components with shared schemas and error responses.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Case-insensitive free-text filter"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields. Prefix with - for descending. Example: name,-createdDate"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":       errorBody("Invalid request", false),
			"ValidationFailed": errorBody("One or more fields failed validation", true),
			"NotFound":         errorBody("Resource not found", false),
			"Conflict":         errorBody("Resource conflicts with existing state", false),
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
