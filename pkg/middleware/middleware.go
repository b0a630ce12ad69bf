// Package middleware provides composable HTTP middleware: CORS, request ids,
// structured request logging, and Prometheus instrumentation.
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware = func(http.Handler) http.Handler

// System manages an ordered stack of HTTP middleware.
// The first registered middleware is the outermost.
type System interface {
	Use(mw Middleware)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	layers []Middleware
}

// New creates a middleware System seeded with mws in order.
func New(mws ...Middleware) System {
	return &stack{layers: append([]Middleware{}, mws...)}
}

func (s *stack) Use(mw Middleware) {
	s.layers = append(s.layers, mw)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.layers) - 1; i >= 0; i-- {
		handler = s.layers[i](handler)
	}
	return handler
}
