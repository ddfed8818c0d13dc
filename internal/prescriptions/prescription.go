// Package prescriptions implements prescription file handling for patients.
// Prescriptions live only in blob storage under a per-user prefix; there is
// no database registration and no enrichment, so listing reads straight
// from the storage system.
package prescriptions

import "time"

// Prescription describes one stored prescription file.
type Prescription struct {
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// File carries one file within a batch upload.
type File struct {
	Data        []byte
	Filename    string
	ContentType string
}

// BatchResult reports the outcome of a single file within a batch upload.
// On success, Prescription is populated and Error is empty.
type BatchResult struct {
	Prescription *Prescription `json:"prescription,omitempty"`
	Filename     string        `json:"filename"`
	Error        string        `json:"error,omitempty"`
}

// ListResult is one page of a user's prescriptions, newest first.
type ListResult struct {
	Items      []Prescription `json:"items"`
	NextMarker string         `json:"next_marker,omitempty"`
}
