package prescriptions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Infernos444/insurely/internal/auth"
	"github.com/Infernos444/insurely/pkg/storage"
)

// uploadConcurrency bounds parallel blob writes within one batch.
const uploadConcurrency = 4

// System defines the public contract for prescription operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, identity auth.Context, marker string, maxResults int32) (*ListResult, error)
	UploadBatch(ctx context.Context, identity auth.Context, files []File) ([]BatchResult, error)
	Download(ctx context.Context, identity auth.Context, name string) (*storage.DownloadResult, error)
	Delete(ctx context.Context, identity auth.Context, name string) error
}

type system struct {
	storage storage.System
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a prescription system over blob storage.
func New(store storage.System, logger *slog.Logger) System {
	return &system{
		storage: store,
		logger:  logger.With("system", "prescriptions"),
		now:     time.Now,
	}
}

func (s *system) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *system) List(ctx context.Context, identity auth.Context, marker string, maxResults int32) (*ListResult, error) {
	if !identity.Valid() {
		return nil, ErrNoIdentity
	}

	page, err := s.storage.List(ctx, userPrefix(identity.UserID), marker, maxResults)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}

	result := &ListResult{
		Items:      make([]Prescription, 0, len(page.Items)),
		NextMarker: page.NextMarker,
	}

	// Blob listing is lexicographic, which for millisecond-stamped names
	// means oldest first. Patients read newest first.
	for i := len(page.Items) - 1; i >= 0; i-- {
		result.Items = append(result.Items, mapPrescription(identity.UserID, page.Items[i]))
	}

	return result, nil
}

// UploadBatch stores each file under the caller's prefix, writing blobs
// concurrently. Per-file failures are reported in the matching BatchResult
// rather than failing the batch; only an invalid batch fails outright.
func (s *system) UploadBatch(ctx context.Context, identity auth.Context, files []File) ([]BatchResult, error) {
	if !identity.Valid() {
		return nil, ErrNoIdentity
	}
	if len(files) == 0 {
		return nil, ErrEmptyBatch
	}

	results := make([]BatchResult, len(files))
	stamp := s.now().UnixMilli()

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(uploadConcurrency)

	for i, file := range files {
		group.Go(func() error {
			result := s.uploadOne(groupCtx, identity.UserID, stamp+int64(i), file)

			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (s *system) uploadOne(ctx context.Context, userID string, stamp int64, file File) BatchResult {
	result := BatchResult{Filename: file.Filename}

	if len(file.Data) == 0 {
		result.Error = ErrEmptyFile.Error()
		return result
	}

	name := fmt.Sprintf("%d-%s", stamp, sanitizeFilename(file.Filename))
	key := blobKey(userID, name)

	if err := s.storage.Upload(ctx, key, bytes.NewReader(file.Data), file.ContentType); err != nil {
		s.logger.Warn("prescription upload failed", "key", key, "error", err)
		result.Error = "upload failed"
		return result
	}

	result.Prescription = &Prescription{
		Name:        name,
		ContentType: file.ContentType,
		SizeBytes:   int64(len(file.Data)),
		UploadedAt:  time.UnixMilli(stamp).UTC(),
	}

	s.logger.Info("prescription uploaded", "key", key, "user_id", userID)
	return result
}

func (s *system) Download(ctx context.Context, identity auth.Context, name string) (*storage.DownloadResult, error) {
	if !identity.Valid() {
		return nil, ErrNoIdentity
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	result, err := s.storage.Download(ctx, blobKey(identity.UserID, name))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download prescription: %w", err)
	}

	return result, nil
}

func (s *system) Delete(ctx context.Context, identity auth.Context, name string) error {
	if !identity.Valid() {
		return ErrNoIdentity
	}
	if err := validateName(name); err != nil {
		return err
	}

	key := blobKey(identity.UserID, name)
	if err := s.storage.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete prescription: %w", err)
	}

	s.logger.Info("prescription deleted", "key", key, "user_id", identity.UserID)
	return nil
}

func userPrefix(userID string) string {
	return fmt.Sprintf("prescriptions/%s/", userID)
}

func blobKey(userID, name string) string {
	return userPrefix(userID) + name
}

func mapPrescription(userID string, item storage.BlobItem) Prescription {
	return Prescription{
		Name:        strings.TrimPrefix(item.Key, userPrefix(userID)),
		ContentType: item.ContentType,
		SizeBytes:   item.SizeBytes,
		UploadedAt:  item.LastModified,
	}
}

// validateName rejects names that could escape the caller's prefix.
func validateName(name string) error {
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return ErrInvalidName
	}
	return nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "prescription"
	}
	return strings.ReplaceAll(name, " ", "-")
}
