package prompts

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// Domain errors for prompt operations.
var (
	ErrNotFound        = errors.New("prompt not found")
	ErrVersionNotFound = errors.New("version not found")
	ErrValidation      = errors.New("validation failed")
	ErrMalformedURL    = errors.New("malformed deployment url")
	ErrSelectionFull   = errors.New("two versions already selected")
	ErrInvalidID       = errors.New("invalid prompt id")
	ErrConflict        = errors.New("prompt conflicts with an existing record")
)

// ValidationError carries per-field messages for a rejected input.
// It matches ErrValidation, and ErrMalformedURL when the deployment URL failed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() []error {
	errs := []error{ErrValidation}
	if _, ok := e.Fields[FieldDeploymentURL]; ok {
		errs = append(errs, ErrMalformedURL)
	}
	return errs
}

// MapHTTPStatus maps prompt domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrVersionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrMalformedURL),
		errors.Is(err, ErrSelectionFull),
		errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
