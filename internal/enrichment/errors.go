package enrichment

import (
	"errors"
	"net/http"
)

var (
	// ErrTimeout indicates no enrichment record appeared within the wait window.
	ErrTimeout = errors.New("enrichment wait timed out")
	// ErrStoreFailure indicates the document store failed while waiting.
	ErrStoreFailure = errors.New("enrichment store failure")
	// ErrAbandoned indicates every waiter cancelled before the record appeared.
	ErrAbandoned = errors.New("enrichment wait abandoned")
)

// MapHTTPStatus maps enrichment errors to HTTP status codes. Timeouts and
// store failures are retryable; clients re-invoke the wait explicitly.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrTimeout) {
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, ErrStoreFailure) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
