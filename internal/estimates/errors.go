package estimates

import (
	"errors"
	"net/http"
)

// Domain errors for estimate operations.
var (
	ErrNotFound        = errors.New("estimate not found")
	ErrDuplicate       = errors.New("estimate already exists")
	ErrEmptyFile       = errors.New("estimate file is empty")
	ErrInvalidFile     = errors.New("invalid estimate request")
	ErrInvalidFileType = errors.New("unsupported estimate file type")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrQuotaExceeded   = errors.New("stored estimate quota exceeded")
	ErrUploadFailed    = errors.New("estimate upload failed")
	ErrNoIdentity      = errors.New("estimate requires an authenticated identity")
)

// MapHTTPStatus maps estimate domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUploadFailed):
		return http.StatusBadGateway
	case errors.Is(err, ErrNoIdentity):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
