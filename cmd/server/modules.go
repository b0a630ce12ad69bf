package main

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/promptdeck/internal/api"
	"github.com/JaimeStill/promptdeck/internal/config"
	"github.com/JaimeStill/promptdeck/internal/infrastructure"
	"github.com/JaimeStill/promptdeck/pkg/middleware"
	"github.com/JaimeStill/promptdeck/pkg/module"
	"github.com/JaimeStill/promptdeck/web/app"
	"github.com/JaimeStill/promptdeck/web/scalar"
)

const (
	appPrefix    = "/app"
	scalarPrefix = "/scalar"
)

type Modules struct {
	API    *module.Module
	App    *module.Module
	Scalar *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	runtime := api.NewRuntime(cfg, infra)
	domain := api.NewDomain(runtime)

	apiModule, err := api.NewDomainModule(cfg, runtime, domain)
	if err != nil {
		return nil, err
	}

	appLogger := infra.Logger.With("module", "app")
	appModule, err := app.NewModule(app.Config{
		BasePath:   appPrefix,
		Prompts:    domain.Prompts,
		Options:    domain.Catalog,
		Pagination: cfg.API.Pagination,
		Logger:     appLogger,
	})
	if err != nil {
		return nil, err
	}
	appModule.Use(middleware.RequestID())
	appModule.Use(middleware.Logger(appLogger))
	appModule.Use(infra.Metrics.Instrument("app"))
	appModule.Use(middleware.MaxBytes(cfg.API.MaxBodySizeBytes()))

	scalarModule := scalar.NewModule(scalarPrefix, cfg.API.BasePath+"/openapi.json")
	scalarModule.Use(middleware.Logger(infra.Logger))
	scalarModule.Use(infra.Metrics.Instrument("scalar"))

	return &Modules{
		API:    apiModule,
		App:    appModule,
		Scalar: scalarModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.App)
	router.Mount(m.Scalar)
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, appPrefix+"/", http.StatusFound)
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body := map[string]any{"status": "ready", "checks": infra.Lifecycle.Status()}
		if !infra.Lifecycle.Ready() {
			body["status"] = "not ready"
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(body)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(body)
	})

	if infra.Registry != nil {
		router.HandleNative("GET "+cfg.Metrics.Path, promhttp.HandlerFor(infra.Registry, promhttp.HandlerOpts{}).ServeHTTP)
	}

	return router
}
