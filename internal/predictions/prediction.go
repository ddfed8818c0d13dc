// Package predictions composes the enrichment wait and the acceptance
// classifier into the patient-facing prediction operation. Predictions are
// derived on demand and never persisted; repeating a request recomputes the
// same result from the same enrichment record.
package predictions

import (
	"time"

	"github.com/Infernos444/insurely/internal/classifier"
	"github.com/Infernos444/insurely/internal/enrichment"
)

// Prediction is the classification of one estimate's enrichment record.
type Prediction struct {
	CorrelationID string            `json:"correlation_id"`
	Record        enrichment.Record `json:"record"`
	Result        classifier.Result `json:"result"`
	ComputedAt    time.Time         `json:"computed_at"`
}

// ProgressReport describes an in-flight enrichment wait.
type ProgressReport struct {
	CorrelationID   string `json:"correlation_id"`
	State           string `json:"state"`
	ProgressPercent int    `json:"progress_percent"`
}
