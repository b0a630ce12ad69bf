// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/promptdeck/internal/config"
	"github.com/JaimeStill/promptdeck/internal/infrastructure"
	"github.com/JaimeStill/promptdeck/pkg/middleware"
	"github.com/JaimeStill/promptdeck/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	return NewDomainModule(cfg, runtime, NewDomain(runtime))
}

// NewDomainModule creates the API module over an existing domain, letting
// other modules share its systems.
func NewDomainModule(cfg *config.Config, runtime *Runtime, domain *Domain) (*module.Module, error) {
	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(runtime.Metrics.Instrument("api"))
	m.Use(middleware.MaxBytes(cfg.API.MaxBodySizeBytes()))

	return m, nil
}
