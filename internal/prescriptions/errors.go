package prescriptions

import (
	"errors"
	"net/http"
)

// Domain errors for prescription operations.
var (
	ErrNotFound     = errors.New("prescription not found")
	ErrEmptyFile    = errors.New("prescription file is empty")
	ErrInvalidName  = errors.New("invalid prescription name")
	ErrEmptyBatch   = errors.New("no prescription files provided")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrNoIdentity   = errors.New("prescription requires an authenticated identity")
)

// MapHTTPStatus maps prescription domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidName), errors.Is(err, ErrEmptyBatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrNoIdentity):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
