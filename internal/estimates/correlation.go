package estimates

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// CorrelationID derives the identifier shared with the external enrichment
// process: {userId}_{uploadTimestampMs}_{filenameWithoutExtension}. Both the
// blob key and the document path derive from this value, so the enrichment
// process can write its record to a predictable location.
func CorrelationID(userID string, uploadedAt time.Time, filename string) string {
	return fmt.Sprintf("%s_%d_%s", userID, uploadedAt.UnixMilli(), filenameStem(filename))
}

// BlobKey is the blob storage location for an estimate file.
func BlobKey(userID, correlationID string) string {
	return fmt.Sprintf("estimates/%s/%s", userID, correlationID)
}

// DocumentPath is the document store location the external enrichment
// process writes its extracted fields to.
func DocumentPath(userID, correlationID string) string {
	return fmt.Sprintf("users/%s/estimates/%s", userID, correlationID)
}

// filenameStem sanitizes an uploaded filename into the correlation-safe
// stem: base name, extension stripped, anything outside [A-Za-z0-9_-]
// replaced with a hyphen.
func filenameStem(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	stem := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)

	if stem == "" || stem == "-" || stem == "." {
		return "estimate"
	}
	return stem
}
