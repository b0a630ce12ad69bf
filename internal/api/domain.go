package api

import (
	"github.com/JaimeStill/promptdeck/internal/catalog"
	"github.com/JaimeStill/promptdeck/internal/prompts"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts prompts.System
	Catalog catalog.Options
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Prompts: prompts.New(
			runtime.Store,
			runtime.Latency,
			runtime.Logger,
			runtime.Pagination,
		),
		Catalog: catalog.NewOptions(
			prompts.StatusNames(),
			prompts.EnvironmentNames(),
		),
	}
}
