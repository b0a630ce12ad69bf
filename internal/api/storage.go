package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/promptdeck/pkg/formatting"
	"github.com/JaimeStill/promptdeck/pkg/handlers"
	"github.com/JaimeStill/promptdeck/pkg/openapi"
	"github.com/JaimeStill/promptdeck/pkg/routes"
	"github.com/JaimeStill/promptdeck/pkg/storage"
)

// SlotInfo describes a storage slot without its contents.
type SlotInfo struct {
	Key      string `json:"key"`
	Exists   bool   `json:"exists"`
	Size     int    `json:"size"`
	Readable string `json:"readable,omitempty"`
}

type storageHandler struct {
	store  storage.System
	logger *slog.Logger
}

func newStorageHandler(store storage.System, logger *slog.Logger) *storageHandler {
	return &storageHandler{
		store:  store,
		logger: logger.With("handler", "storage"),
	}
}

func (h *storageHandler) routes() routes.Group {
	return routes.Group{
		Prefix:      "/storage",
		Tags:        []string{"Storage"},
		Description: "Read-only inspection of raw storage slots",
		Schemas: map[string]*openapi.Schema{
			"SlotInfo": {
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"key":      {Type: "string"},
					"exists":   {Type: "boolean"},
					"size":     {Type: "integer", Description: "Stored value size in bytes"},
					"readable": {Type: "string", Description: "Size in binary units, e.g. 1.5 KB"},
				},
			},
		},
		Routes: []routes.Route{
			{
				Method:  "GET",
				Pattern: "/{key}",
				Handler: h.find,
				OpenAPI: &openapi.Operation{
					Summary:    "Describe a storage slot",
					Parameters: []*openapi.Parameter{openapi.PathParam("key", "Slot key")},
					Responses: map[int]*openapi.Response{
						http.StatusOK:         openapi.ResponseJSON("Slot description", "SlotInfo"),
						http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
					},
				},
			},
			{
				Method:  "GET",
				Pattern: "/{key}/download",
				Handler: h.download,
				OpenAPI: &openapi.Operation{
					Summary:    "Download the raw slot value",
					Parameters: []*openapi.Parameter{openapi.PathParam("key", "Slot key")},
					Responses: map[int]*openapi.Response{
						http.StatusOK:       {Description: "Raw slot contents"},
						http.StatusNotFound: openapi.ResponseRef("NotFound"),
					},
				},
			},
		},
	}
}

func (h *storageHandler) find(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	exists, err := h.store.Exists(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	info := SlotInfo{Key: key, Exists: exists}
	if exists {
		data, err := h.store.Read(r.Context(), key)
		if err != nil {
			handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
			return
		}
		info.Size = len(data)
		info.Readable = formatting.FormatBytes(int64(len(data)), 1)
	}

	handlers.RespondJSON(w, http.StatusOK, info)
}

func (h *storageHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	data, err := h.store.Read(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
