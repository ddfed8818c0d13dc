package predictions

import (
	"errors"

	"github.com/Infernos444/insurely/internal/enrichment"
	"github.com/Infernos444/insurely/internal/estimates"
)

// MapHTTPStatus maps prediction errors to HTTP status codes. Prediction
// failures are either enrichment wait failures or estimate lookup failures;
// each delegates to its owning domain.
func MapHTTPStatus(err error) int {
	if errors.Is(err, enrichment.ErrTimeout) ||
		errors.Is(err, enrichment.ErrStoreFailure) ||
		errors.Is(err, enrichment.ErrAbandoned) {
		return enrichment.MapHTTPStatus(err)
	}
	return estimates.MapHTTPStatus(err)
}
