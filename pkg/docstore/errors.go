package docstore

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates no document exists at the requested path.
	ErrNotFound = errors.New("document not found")
	// ErrEmptyPath indicates an empty document path was provided.
	ErrEmptyPath = errors.New("document path must not be empty")
	// ErrInvalidPath indicates the document path contains an invalid segment.
	ErrInvalidPath = errors.New("document path contains invalid segment")
	// ErrPathWatched indicates a live subscription already exists for the path.
	ErrPathWatched = errors.New("document path already has a live subscription")
	// ErrListenerClosed indicates the notification listener has shut down.
	ErrListenerClosed = errors.New("document listener closed")
)

// MapHTTPStatus maps document store errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptyPath) || errors.Is(err, ErrInvalidPath) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrPathWatched) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
