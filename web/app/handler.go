package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/JaimeStill/promptdeck/internal/catalog"
	"github.com/JaimeStill/promptdeck/internal/prompts"
	"github.com/JaimeStill/promptdeck/pkg/pagination"
	"github.com/JaimeStill/promptdeck/pkg/web"
)

// Flash messages shown after a redirect to the dashboard.
const (
	NoticeCreated     = "Prompt created successfully!"
	NoticeUpdated     = "Prompt updated successfully! New version: %s"
	NoticeDeleted     = "Prompt deleted successfully!"
	ErrorDeleteFailed = "Failed to delete prompt"
	ErrorCreateFailed = "Failed to create prompt"
	ErrorUpdateFailed = "Failed to update prompt"
	ErrorLoadFailed   = "Failed to load prompts. Please try again."
	ErrorTwoVersions  = "You can only compare 2 versions at a time"
)

// Handler renders the app pages.
type Handler struct {
	sys        prompts.System
	options    catalog.Options
	pagination pagination.Config
	templates  *web.TemplateSet
	basePath   string
	logger     *slog.Logger
}

// NewHandler parses the page templates and creates a Handler.
func NewHandler(cfg Config) (*Handler, error) {
	ts, err := NewTemplates(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	return &Handler{
		sys:        cfg.Prompts,
		options:    cfg.Options,
		pagination: cfg.Pagination,
		templates:  ts,
		basePath:   cfg.BasePath,
		logger:     cfg.Logger.With("handler", "app"),
	}, nil
}

// Dashboard lists prompts with the search, filter, sort, page and
// row-expansion state carried in the query string.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pagination.PageRequestFromQuery(q, h.pagination)
	filters := prompts.FiltersFromQuery(q)

	result, err := h.sys.Search(r.Context(), page, filters)
	if err != nil {
		h.renderError(w, r, http.StatusInternalServerError, ErrorLoadFailed, err)
		return
	}

	expanded, _ := strconv.Atoi(q.Get("expand"))
	state := dashboardState{
		Filters:  filters,
		Sort:     prompts.SortStateFrom(page.Sort),
		Page:     result.Page,
		PageSize: result.PageSize,
		Expanded: expanded,
	}

	h.render(w, r, http.StatusOK, dashboardView, dashboardView.Title,
		newDashboardPage(h.basePath, state, result, h.options))
}

// New renders an empty editor. A model query parameter preselects a
// catalog model and its defaults.
func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	in := prompts.Input{
		Status:      prompts.StatusDraft,
		Environment: prompts.EnvDevelopment,
	}
	var errs map[string]string
	if id := r.URL.Query().Get("model"); id != "" {
		if err := in.SelectModel(id); err != nil {
			h.logger.Debug("model preselect failed", "model", id, "error", err)
			errs = map[string]string{prompts.FieldModel: "Model selection is required"}
		}
	}

	h.renderForm(w, r, http.StatusOK, h.newForm(nil, in, "", errs))
}

// Create handles editor submissions for a new prompt.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sub, err := parseSubmission(r)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, ErrorCreateFailed, err)
		return
	}

	if !sub.save() {
		h.renderForm(w, r, http.StatusOK, h.newForm(nil, sub.Input, sub.ChangeLog, sub.Errors))
		return
	}

	if err := sub.validate(); err != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, h.newForm(nil, sub.Input, sub.ChangeLog, sub.Errors))
		return
	}

	if _, err := h.sys.Create(r.Context(), prompts.CreateCommand{Input: sub.Input, ChangeLog: sub.ChangeLog}); err != nil {
		h.logger.Error("create failed", "error", err)
		h.redirectDashboard(w, r, "", ErrorCreateFailed)
		return
	}

	h.redirectDashboard(w, r, NoticeCreated, "")
}

// Detail renders the read-only view of a prompt. The tab query parameter
// picks the section.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.find(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, detailView, rec.Name,
		newDetailPage(h.basePath, rec, r.URL.Query().Get("tab")))
}

// Edit renders the editor pre-filled with an existing prompt.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.find(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, http.StatusOK, h.newForm(rec, rec.Input(), "", nil))
}

// Update handles editor submissions for an existing prompt.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.find(w, r)
	if !ok {
		return
	}

	sub, err := parseSubmission(r)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, ErrorUpdateFailed, err)
		return
	}

	if !sub.save() {
		h.renderForm(w, r, http.StatusOK, h.newForm(rec, sub.Input, sub.ChangeLog, sub.Errors))
		return
	}

	if err := sub.validate(); err != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, h.newForm(rec, sub.Input, sub.ChangeLog, sub.Errors))
		return
	}

	updated, err := h.sys.Update(r.Context(), rec.ID, prompts.UpdateCommand{Input: sub.Input, ChangeLog: sub.ChangeLog})
	if err != nil {
		h.logger.Error("update failed", "id", rec.ID, "error", err)
		h.redirectDashboard(w, r, "", ErrorUpdateFailed)
		return
	}

	h.redirectDashboard(w, r, fmt.Sprintf(NoticeUpdated, updated.CurrentVersion), "")
}

// ConfirmDelete renders the delete confirmation page.
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.find(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, deleteView, deleteView.Title, rec)
}

// Delete removes a prompt and its history, then returns to the dashboard.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := prompts.ParseID(r.PathValue("id"))
	if err != nil {
		h.redirectDashboard(w, r, "", ErrorDeleteFailed)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete failed", "id", id, "error", err)
		h.redirectDashboard(w, r, "", ErrorDeleteFailed)
		return
	}

	h.redirectDashboard(w, r, NoticeDeleted, "")
}

// Versions renders the newest-first history with the comparison
// selection carried in repeated select parameters. A toggle parameter
// adds or removes one label.
func (h *Handler) Versions(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.find(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	sel, err := prompts.NewSelection(q["select"]...)
	if err != nil {
		sel, _ = prompts.NewSelection(q["select"][:2]...)
	}

	var flash string
	if label := q.Get("toggle"); label != "" {
		if err := sel.Toggle(label); errors.Is(err, prompts.ErrSelectionFull) {
			flash = ErrorTwoVersions
		}
	}

	page := newVersionsPage(h.basePath, rec, sel)
	h.renderFlash(w, http.StatusOK, versionsView, versionsView.Title+": "+rec.Name, "", flash, page)
}

// Compare renders two snapshots side by side.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	id, err := prompts.ParseID(r.PathValue("id"))
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	cmp, err := h.sys.Compare(r.Context(), id, r.PathValue("left"), r.PathValue("right"))
	if err != nil {
		if errors.Is(err, prompts.ErrNotFound) || errors.Is(err, prompts.ErrVersionNotFound) {
			h.renderNotFound(w, r)
			return
		}
		h.renderError(w, r, http.StatusInternalServerError, "Failed to load version comparison. Please try again.", err)
		return
	}

	h.render(w, r, http.StatusOK, compareView, compareView.Title+": "+cmp.PromptName,
		newComparePage(h.basePath, cmp))
}

func (h *Handler) find(w http.ResponseWriter, r *http.Request) (*prompts.Record, bool) {
	id, err := prompts.ParseID(r.PathValue("id"))
	if err != nil {
		h.renderNotFound(w, r)
		return nil, false
	}

	rec, err := h.sys.Find(r.Context(), id)
	if err != nil {
		if errors.Is(err, prompts.ErrNotFound) {
			h.renderNotFound(w, r)
			return nil, false
		}
		h.renderError(w, r, http.StatusInternalServerError, ErrorLoadFailed, err)
		return nil, false
	}
	return rec, true
}

func (h *Handler) newForm(rec *prompts.Record, in prompts.Input, changeLog string, errs map[string]string) formPage {
	p := formPage{
		Action:    h.basePath + "/prompts",
		Input:     in,
		ChangeLog: changeLog,
		Errors:    errs,
		Options:   h.options,
	}
	if rec != nil {
		p.Editing = true
		p.ID = rec.ID
		p.Name = rec.Name
		p.CurrentVersion = rec.CurrentVersion
		p.Action = fmt.Sprintf("%s/prompts/%d", h.basePath, rec.ID)
	}
	return p
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, p formPage) {
	title := "Create New Prompt"
	if p.Editing {
		title = "Edit Prompt: " + p.Name
	}
	h.render(w, r, status, formView, title, p)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, view web.ViewDef, title string, data any) {
	q := r.URL.Query()
	h.renderFlash(w, status, view, title, q.Get("notice"), q.Get("error"), data)
}

func (h *Handler) renderFlash(w http.ResponseWriter, status int, view web.ViewDef, title, notice, flashErr string, data any) {
	vd := web.ViewData{
		Title:  title,
		Notice: notice,
		Error:  flashErr,
		Data:   data,
	}
	if err := h.templates.Render(w, status, layout, view.Template, vd); err != nil {
		h.logger.Error("render failed", "view", view.Template, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	h.renderFlash(w, http.StatusNotFound, notFoundView, notFoundView.Title, "", "", r.URL.Path)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	h.logger.Error("request failed", "path", r.URL.Path, "error", err)
	h.renderFlash(w, status, errorView, errorView.Title, "", "", message)
}

func (h *Handler) redirectDashboard(w http.ResponseWriter, r *http.Request, notice, flashErr string) {
	q := url.Values{}
	if notice != "" {
		q.Set("notice", notice)
	}
	if flashErr != "" {
		q.Set("error", flashErr)
	}

	target := h.basePath + "/"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
