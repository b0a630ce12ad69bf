package storage

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates the requested slot does not exist.
	ErrNotFound = errors.New("slot not found")
	// ErrEmptyKey indicates an empty slot key was provided.
	ErrEmptyKey = errors.New("storage key must not be empty")
	// ErrInvalidKey indicates the slot key contains a path traversal segment.
	ErrInvalidKey = errors.New("storage key contains invalid path segment")
	// ErrUnknownDriver indicates the configured driver is not supported.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// MapHTTPStatus maps storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptyKey) || errors.Is(err, ErrInvalidKey) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
