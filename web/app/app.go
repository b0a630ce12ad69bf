// Package app serves the server-rendered prompt dashboard: listing with
// search, filters, sorting and paging, the read-only detail tabs, the
// create/edit form, delete confirmation, version history, and version
// comparison.
package app

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/promptdeck/internal/catalog"
	"github.com/JaimeStill/promptdeck/internal/prompts"
	"github.com/JaimeStill/promptdeck/pkg/module"
	"github.com/JaimeStill/promptdeck/pkg/pagination"
	"github.com/JaimeStill/promptdeck/pkg/web"
)

//go:embed templates
var templateFS embed.FS

const layout = "app"

var (
	dashboardView = web.ViewDef{Template: "dashboard.html", Title: "Prompt Dashboard"}
	detailView    = web.ViewDef{Template: "detail.html", Title: "Prompt Details"}
	formView      = web.ViewDef{Template: "form.html", Title: "Prompt Editor"}
	deleteView    = web.ViewDef{Template: "delete.html", Title: "Delete Prompt"}
	versionsView  = web.ViewDef{Template: "versions.html", Title: "Version History"}
	compareView   = web.ViewDef{Template: "compare.html", Title: "Version Comparison"}
	notFoundView  = web.ViewDef{Template: "not-found.html", Title: "Page Not Found"}
	errorView     = web.ViewDef{Template: "error.html", Title: "Something Went Wrong"}
)

var views = []web.ViewDef{
	dashboardView,
	detailView,
	formView,
	deleteView,
	versionsView,
	compareView,
	notFoundView,
	errorView,
}

var funcs = template.FuncMap{
	"date":      prompts.FormatDate,
	"lower":     strings.ToLower,
	"value":     displayValue,
	"dateInput": dateInput,
}

// Config carries the dependencies of the app module.
type Config struct {
	BasePath   string
	Prompts    prompts.System
	Options    catalog.Options
	Pagination pagination.Config
	Logger     *slog.Logger
}

// NewModule creates the app module mounted at cfg.BasePath.
func NewModule(cfg Config) (*module.Module, error) {
	h, err := NewHandler(cfg)
	if err != nil {
		return nil, err
	}
	return module.New(cfg.BasePath, h.Router()), nil
}

// NewTemplates parses the embedded page templates.
func NewTemplates(basePath string) (*web.TemplateSet, error) {
	ts, err := web.NewTemplateSet(
		templateFS,
		"templates/layouts/*.html",
		"templates/pages",
		basePath,
		funcs,
		views,
	)
	if err != nil {
		return nil, fmt.Errorf("parse app templates: %w", err)
	}
	return ts, nil
}

// Router returns the app routes with the not-found page as fallback.
func (h *Handler) Router() http.Handler {
	r := web.NewRouter()

	r.HandleFunc("GET /{$}", h.Dashboard)
	r.HandleFunc("GET /prompts/new", h.New)
	r.HandleFunc("POST /prompts", h.Create)
	r.HandleFunc("GET /prompts/{id}", h.Detail)
	r.HandleFunc("GET /prompts/{id}/edit", h.Edit)
	r.HandleFunc("POST /prompts/{id}", h.Update)
	r.HandleFunc("GET /prompts/{id}/delete", h.ConfirmDelete)
	r.HandleFunc("POST /prompts/{id}/delete", h.Delete)
	r.HandleFunc("GET /versions/{id}", h.Versions)
	r.HandleFunc("GET /versions/{id}/compare/{left}/{right}", h.Compare)

	r.SetFallback(h.templates.ErrorHandler(layout, notFoundView, http.StatusNotFound))
	return r
}
