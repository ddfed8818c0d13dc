// Package docstore provides a path-keyed document store with point reads
// and change subscriptions, backed by PostgreSQL LISTEN/NOTIFY.
//
// Documents are JSON field maps addressed by slash-delimited paths
// (e.g. users/{id}/estimates/{key}). External processes write documents;
// this service reads them and watches for changes.
package docstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Infernos444/insurely/pkg/lifecycle"
)

// Document is a stored field map addressed by its path.
type Document struct {
	Path      string         `json:"path"`
	Fields    map[string]any `json:"fields"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// System manages document reads, writes, and change subscriptions.
type System interface {
	// Start registers the notification listener and shutdown hooks.
	Start(lc *lifecycle.Coordinator) error
	// Get returns the document at path. Returns ErrNotFound if absent.
	Get(ctx context.Context, path string) (*Document, error)
	// Put creates or replaces the document at path.
	Put(ctx context.Context, path string, fields map[string]any) error
	// Delete removes the document at path. Returns ErrNotFound if absent.
	Delete(ctx context.Context, path string) error
	// Watch subscribes to changes of the document at path. At most one
	// subscription per path may be live; a second Watch on the same path
	// returns ErrPathWatched. The caller must Cancel the subscription.
	Watch(ctx context.Context, path string) (*Subscription, error)
}

// Subscription delivers document changes for a single path. Cancel releases
// the subscription and is safe to call more than once; the updates channel
// is closed exactly once.
type Subscription struct {
	path    string
	updates chan Document
	release func()
	once    sync.Once
}

// Updates returns the channel on which changed documents are delivered.
// The channel is closed when the subscription is cancelled.
func (s *Subscription) Updates() <-chan Document {
	return s.updates
}

// Path returns the watched document path.
func (s *Subscription) Path() string {
	return s.path
}

// Cancel releases the subscription. Idempotent.
func (s *Subscription) Cancel() {
	s.once.Do(s.release)
}

func validatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if strings.Contains(path, "..") || strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		return ErrInvalidPath
	}
	return nil
}
