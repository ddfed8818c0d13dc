package storage

import (
	"fmt"
	"strconv"
	"time"
)

// MaxListCap bounds the page size of a single list operation.
const MaxListCap int32 = 5000

// BlobItem describes a single stored blob in a listing.
type BlobItem struct {
	Key          string    `json:"key"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
}

// ListResult holds one page of a blob listing. NextMarker is empty when no
// further pages exist.
type ListResult struct {
	Items      []BlobItem `json:"items"`
	NextMarker string     `json:"next_marker,omitempty"`
}

// ParseMaxResults parses a max results query value, falling back when empty
// and clamping to MaxListCap.
func ParseMaxResults(value string, fallback int32) (int32, error) {
	if value == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid max_results: %q", value)
	}

	return min(int32(n), MaxListCap), nil
}
