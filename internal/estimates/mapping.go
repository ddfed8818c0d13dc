package estimates

import (
	"net/url"

	"github.com/Infernos444/insurely/pkg/query"
	"github.com/Infernos444/insurely/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "estimates", "e").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("correlation_id", "CorrelationID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("document_path", "DocumentPath").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for estimate queries.
// Nil fields are ignored. ContentType and CorrelationID use exact matching;
// Filename uses case-insensitive contains matching. User scoping is applied
// by the repository, never by callers.
type Filters struct {
	Filename      *string `json:"filename,omitempty"`
	ContentType   *string `json:"content_type,omitempty"`
	CorrelationID *string `json:"correlation_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Filename", f.Filename).
		WhereEquals("ContentType", f.ContentType).
		WhereEquals("CorrelationID", f.CorrelationID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	if cid := values.Get("correlation_id"); cid != "" {
		f.CorrelationID = &cid
	}

	return f
}

func scanEstimate(s repository.Scanner) (Estimate, error) {
	var e Estimate
	err := s.Scan(
		&e.ID,
		&e.UserID,
		&e.CorrelationID,
		&e.Filename,
		&e.ContentType,
		&e.SizeBytes,
		&e.PageCount,
		&e.StorageKey,
		&e.DocumentPath,
		&e.UploadedAt,
		&e.UpdatedAt,
	)
	return e, err
}
