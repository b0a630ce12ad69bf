package prompts

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/promptdeck/pkg/handlers"
	"github.com/JaimeStill/promptdeck/pkg/pagination"
	"github.com/JaimeStill/promptdeck/pkg/routes"
)

// Handler provides HTTP endpoints for prompt operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "prompts"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for prompt endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/prompts",
		Tags:        []string{"Prompts"},
		Description: "Prompt configuration records and their version history",
		Schemas:     Spec.Schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "/search", Handler: h.Search, OpenAPI: Spec.Search},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: Spec.Create},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
			{Method: "GET", Pattern: "/{id}/versions", Handler: h.History, OpenAPI: Spec.History},
			{Method: "GET", Pattern: "/{id}/versions/{version}", Handler: h.Version, OpenAPI: Spec.Version},
			{Method: "GET", Pattern: "/{id}/compare/{left}/{right}", Handler: h.Compare, OpenAPI: Spec.Compare},
		},
	}
}

// List returns a page of prompts filtered and sorted by query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.Search(r.Context(), page, filters)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching prompts.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondDecode(w, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.Search(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single prompt by its integer id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	rec, err := h.sys.Find(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// Create validates a JSON body and creates a prompt at version 1.0.0.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.respondDecode(w, err)
		return
	}

	if err := cmd.Validate(); err != nil {
		h.respondError(w, err)
		return
	}

	rec, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, rec)
}

// Update validates a JSON body and records a new patch version.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.respondDecode(w, err)
		return
	}

	if err := cmd.Validate(); err != nil {
		h.respondError(w, err)
		return
	}

	rec, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// Delete removes a prompt and its history.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// History returns the version snapshots of a prompt, oldest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	versions, err := h.sys.History(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, versions)
}

// Version returns one snapshot by label.
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	v, err := h.sys.Version(r.Context(), id, r.PathValue("version"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

// Compare returns the side-by-side comparison of two snapshots.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	c, err := h.sys.Compare(r.Context(), id, r.PathValue("left"), r.PathValue("right"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// ParseID parses a positive integer prompt id.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		handlers.RespondFields(w, h.logger, http.StatusBadRequest, err, verr.Fields)
		return
	}
	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
}

func (h *Handler) respondDecode(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}
	handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
}
