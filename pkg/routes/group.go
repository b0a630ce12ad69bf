// Package routes registers grouped handlers on a ServeMux and documents
// them in an OpenAPI spec.
package routes

import (
	"net/http"

	"github.com/JaimeStill/promptdeck/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags and schemas.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
	Schemas     map[string]*openapi.Schema
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

// Document adds every route carrying an OpenAPI operation to spec, with
// paths rooted at basePath. Operations without tags inherit the group's tags.
func Document(spec *openapi.Spec, basePath string, groups ...Group) {
	for _, group := range groups {
		documentGroup(spec, basePath, group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, child)
	}
}

func documentGroup(spec *openapi.Spec, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix

	if len(group.Schemas) > 0 {
		spec.Components.AddSchemas(group.Schemas)
	}
	for _, tag := range group.Tags {
		spec.AddTag(tag, group.Description)
	}

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}

		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = group.Tags
		}
		spec.AddOperation(route.Method, fullPrefix+route.Pattern, &op)
	}

	for _, child := range group.Children {
		documentGroup(spec, fullPrefix, child)
	}
}
