// Package estimates implements the treatment estimate domain: upload and
// registration of estimate files, blob storage integration, and the
// correlation contract shared with the external enrichment process.
package estimates

import (
	"time"

	"github.com/google/uuid"
)

// Estimate represents a stored treatment estimate with its metadata and
// blob storage reference. CorrelationID ties the stored blob to the
// enrichment record an external process will eventually write.
type Estimate struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id"`
	CorrelationID string    `json:"correlation_id"`
	Filename      string    `json:"filename"`
	ContentType   string    `json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	PageCount     *int      `json:"page_count"`
	StorageKey    string    `json:"storage_key"`
	DocumentPath  string    `json:"document_path"`
	UploadedAt    time.Time `json:"uploaded_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to upload and register an estimate.
// Data holds the raw file bytes. PageCount is optional and may be extracted
// by the caller via pdfcpu; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}
