package catalog

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/promptdeck/pkg/handlers"
	"github.com/JaimeStill/promptdeck/pkg/routes"
)

// Handler serves the read-only catalog.
type Handler struct {
	options Options
	logger  *slog.Logger
}

// NewHandler creates a Handler serving opts.
func NewHandler(opts Options, logger *slog.Logger) *Handler {
	return &Handler{
		options: opts,
		logger:  logger.With("handler", "catalog"),
	}
}

// Routes returns the route group definition for catalog endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/catalog",
		Tags:        []string{"Catalog"},
		Description: "Models, categories, and enumerations offered by the editor",
		Schemas:     Spec.Schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/models", Handler: h.Models, OpenAPI: Spec.Models},
			{Method: "GET", Pattern: "/models/{id}", Handler: h.Model, OpenAPI: Spec.Model},
			{Method: "GET", Pattern: "/options", Handler: h.Options, OpenAPI: Spec.Options},
		},
	}
}

// Models lists the catalog models.
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.options.Models)
}

// Model returns one catalog model by id.
func (h *Handler) Model(w http.ResponseWriter, r *http.Request) {
	m, err := FindModel(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, m)
}

// Options returns every editor choice in one payload.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.options)
}
