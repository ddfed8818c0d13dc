package auth

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingToken indicates no bearer token accompanied the request.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid bearer token")
	// ErrUnauthenticated indicates an operation requires a verified identity.
	ErrUnauthenticated = errors.New("authenticated identity required")
)

// MapHTTPStatus maps auth errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrMissingToken) || errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrUnauthenticated) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
