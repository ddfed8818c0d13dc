package prescriptions_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Infernos444/insurely/internal/auth"
	"github.com/Infernos444/insurely/internal/prescriptions"
	"github.com/Infernos444/insurely/pkg/lifecycle"
	"github.com/Infernos444/insurely/pkg/storage"
)

type fakeStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
	types map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		blobs: make(map[string][]byte),
		types: make(map[string]string),
	}
}

func (f *fakeStorage) Start(lc *lifecycle.Coordinator) error { return nil }

func (f *fakeStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.blobs[key] = data
	f.types[key] = contentType
	f.mu.Unlock()
	return nil
}

func (f *fakeStorage) Download(ctx context.Context, key string) (*storage.DownloadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return &storage.DownloadResult{
		Body:          io.NopCloser(strings.NewReader(string(data))),
		ContentType:   f.types[key],
		ContentLength: int64(len(data)),
	}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.blobs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(f.blobs, key)
	return nil
}

func (f *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[key]
	return ok, nil
}

func (f *fakeStorage) List(ctx context.Context, prefix, marker string, maxResults int32) (*storage.ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.blobs))
	for key := range f.blobs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	// Lexicographic order, matching blob service semantics.
	for i := range keys {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}

	result := &storage.ListResult{Items: make([]storage.BlobItem, 0, len(keys))}
	for _, key := range keys {
		result.Items = append(result.Items, storage.BlobItem{
			Key:          key,
			ContentType:  f.types[key],
			SizeBytes:    int64(len(f.blobs[key])),
			LastModified: time.Now(),
		})
	}

	return result, nil
}

func newTestSystem(store storage.System) prescriptions.System {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return prescriptions.New(store, logger)
}

var identity = auth.Context{UserID: "u1"}

func TestUploadBatchPerFileOutcomes(t *testing.T) {
	store := newFakeStorage()
	sys := newTestSystem(store)

	files := []prescriptions.File{
		{Data: []byte("rx-a"), Filename: "insulin.pdf", ContentType: "application/pdf"},
		{Data: nil, Filename: "empty.pdf", ContentType: "application/pdf"},
		{Data: []byte("rx-b"), Filename: "metformin scan.png", ContentType: "image/png"},
	}

	results, err := sys.UploadBatch(context.Background(), identity, files)
	if err != nil {
		t.Fatalf("UploadBatch() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results length = %d, want 3", len(results))
	}

	if results[0].Error != "" || results[0].Prescription == nil {
		t.Errorf("results[0] = %+v, want success", results[0])
	}
	if results[1].Error == "" || results[1].Prescription != nil {
		t.Errorf("results[1] = %+v, want empty file failure", results[1])
	}
	if results[2].Error != "" || results[2].Prescription == nil {
		t.Errorf("results[2] = %+v, want success", results[2])
	}

	if !strings.HasSuffix(results[2].Prescription.Name, "-metformin-scan.png") {
		t.Errorf("Name = %q, want sanitized filename suffix", results[2].Prescription.Name)
	}

	for key := range store.blobs {
		if !strings.HasPrefix(key, "prescriptions/u1/") {
			t.Errorf("stored key = %q, want prescriptions/u1/ prefix", key)
		}
	}
}

func TestUploadBatchEmpty(t *testing.T) {
	sys := newTestSystem(newFakeStorage())

	_, err := sys.UploadBatch(context.Background(), identity, nil)
	if !errors.Is(err, prescriptions.ErrEmptyBatch) {
		t.Fatalf("UploadBatch() error = %v, want ErrEmptyBatch", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newFakeStorage()
	sys := newTestSystem(store)

	files := []prescriptions.File{
		{Data: []byte("a"), Filename: "first.pdf", ContentType: "application/pdf"},
		{Data: []byte("b"), Filename: "second.pdf", ContentType: "application/pdf"},
		{Data: []byte("c"), Filename: "third.pdf", ContentType: "application/pdf"},
	}
	if _, err := sys.UploadBatch(context.Background(), identity, files); err != nil {
		t.Fatalf("UploadBatch() error = %v", err)
	}

	result, err := sys.List(context.Background(), identity, "", 50)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(result.Items) != 3 {
		t.Fatalf("items length = %d, want 3", len(result.Items))
	}

	if !strings.HasSuffix(result.Items[0].Name, "-third.pdf") {
		t.Errorf("Items[0].Name = %q, want newest first", result.Items[0].Name)
	}
	if !strings.HasSuffix(result.Items[2].Name, "-first.pdf") {
		t.Errorf("Items[2].Name = %q, want oldest last", result.Items[2].Name)
	}

	for _, item := range result.Items {
		if strings.Contains(item.Name, "/") {
			t.Errorf("Name = %q, want storage prefix stripped", item.Name)
		}
	}
}

func TestListScopedToUser(t *testing.T) {
	store := newFakeStorage()
	sys := newTestSystem(store)

	other := auth.Context{UserID: "u2"}
	if _, err := sys.UploadBatch(context.Background(), other, []prescriptions.File{
		{Data: []byte("x"), Filename: "foreign.pdf", ContentType: "application/pdf"},
	}); err != nil {
		t.Fatalf("UploadBatch() error = %v", err)
	}

	result, err := sys.List(context.Background(), identity, "", 50)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("items length = %d, want 0 for other user", len(result.Items))
	}
}

func TestDownloadRoundTrip(t *testing.T) {
	store := newFakeStorage()
	sys := newTestSystem(store)

	results, err := sys.UploadBatch(context.Background(), identity, []prescriptions.File{
		{Data: []byte("rx-contents"), Filename: "scan.pdf", ContentType: "application/pdf"},
	})
	if err != nil {
		t.Fatalf("UploadBatch() error = %v", err)
	}

	download, err := sys.Download(context.Background(), identity, results[0].Prescription.Name)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	defer download.Body.Close()

	data, _ := io.ReadAll(download.Body)
	if string(data) != "rx-contents" {
		t.Errorf("downloaded = %q, want %q", data, "rx-contents")
	}
}

func TestNameValidation(t *testing.T) {
	sys := newTestSystem(newFakeStorage())

	tests := []string{"", "a/b", "../escape", "nested/../up"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := sys.Download(context.Background(), identity, name); !errors.Is(err, prescriptions.ErrInvalidName) {
				t.Errorf("Download(%q) error = %v, want ErrInvalidName", name, err)
			}
			if err := sys.Delete(context.Background(), identity, name); !errors.Is(err, prescriptions.ErrInvalidName) {
				t.Errorf("Delete(%q) error = %v, want ErrInvalidName", name, err)
			}
		})
	}
}

func TestDeleteMissing(t *testing.T) {
	sys := newTestSystem(newFakeStorage())

	if err := sys.Delete(context.Background(), identity, "1700000000000-gone.pdf"); !errors.Is(err, prescriptions.ErrNotFound) {
		t.Fatalf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestIdentityRequired(t *testing.T) {
	sys := newTestSystem(newFakeStorage())
	anonymous := auth.Context{}

	if _, err := sys.List(context.Background(), anonymous, "", 10); !errors.Is(err, prescriptions.ErrNoIdentity) {
		t.Errorf("List() error = %v, want ErrNoIdentity", err)
	}
	if _, err := sys.UploadBatch(context.Background(), anonymous, []prescriptions.File{{Data: []byte("x")}}); !errors.Is(err, prescriptions.ErrNoIdentity) {
		t.Errorf("UploadBatch() error = %v, want ErrNoIdentity", err)
	}
}
