package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/promptdeck/internal/catalog"
	"github.com/JaimeStill/promptdeck/internal/config"
	"github.com/JaimeStill/promptdeck/pkg/openapi"
	"github.com/JaimeStill/promptdeck/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	groups := []routes.Group{
		domain.Prompts.Handler().Routes(),
		catalog.NewHandler(domain.Catalog, runtime.Logger).Routes(),
		newStorageHandler(runtime.Storage, runtime.Logger).routes(),
	}

	routes.Register(mux, groups...)

	spec := BuildSpec(cfg, groups...)
	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}

// BuildSpec documents groups in an OpenAPI spec rooted at the API base path.
func BuildSpec(cfg *config.Config, groups ...routes.Group) *openapi.Spec {
	spec := openapi.NewSpec(cfg.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	routes.Document(spec, "", groups...)
	return spec
}
