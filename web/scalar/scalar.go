// Package scalar serves the Scalar API reference UI for the JSON API's
// OpenAPI document.
package scalar

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/promptdeck/pkg/module"
)

//go:embed index.html
var staticFS embed.FS

var tmpl = template.Must(template.ParseFS(staticFS, "index.html"))

// NewModule creates a module that serves the Scalar API reference UI at
// basePath, reading the OpenAPI document from specURL.
func NewModule(basePath, specURL string) *module.Module {
	router := buildRouter(basePath, specURL)
	return module.New(basePath, router)
}

func buildRouter(basePath, specURL string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		data := map[string]string{"BasePath": basePath, "SpecURL": specURL}
		if err := tmpl.Execute(&buf, data); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		buf.WriteTo(w)
	})

	return mux
}
