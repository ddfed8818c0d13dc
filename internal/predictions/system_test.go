package predictions_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Infernos444/insurely/internal/auth"
	"github.com/Infernos444/insurely/internal/classifier"
	"github.com/Infernos444/insurely/internal/enrichment"
	"github.com/Infernos444/insurely/internal/estimates"
	"github.com/Infernos444/insurely/internal/predictions"
	"github.com/Infernos444/insurely/pkg/docstore"
	"github.com/Infernos444/insurely/pkg/pagination"
	"github.com/Infernos444/insurely/pkg/storage"
)

type stubEstimates struct {
	estimate *estimates.Estimate
}

func (s *stubEstimates) Handler(maxUploadSize int64) *estimates.Handler { return nil }

func (s *stubEstimates) List(
	ctx context.Context,
	identity auth.Context,
	page pagination.PageRequest,
	filters estimates.Filters,
) (*pagination.PageResult[estimates.Estimate], error) {
	return nil, estimates.ErrNotFound
}

func (s *stubEstimates) Find(ctx context.Context, identity auth.Context, correlationID string) (*estimates.Estimate, error) {
	if s.estimate == nil || s.estimate.CorrelationID != correlationID || s.estimate.UserID != identity.UserID {
		return nil, estimates.ErrNotFound
	}
	return s.estimate, nil
}

func (s *stubEstimates) Submit(ctx context.Context, identity auth.Context, cmd estimates.CreateCommand) (*estimates.Estimate, error) {
	return nil, estimates.ErrUploadFailed
}

func (s *stubEstimates) Download(ctx context.Context, identity auth.Context, correlationID string) (*storage.DownloadResult, error) {
	return nil, estimates.ErrNotFound
}

func (s *stubEstimates) Delete(ctx context.Context, identity auth.Context, correlationID string) error {
	return estimates.ErrNotFound
}

type stubStore struct {
	docs map[string]docstore.Document
}

func (s *stubStore) Get(ctx context.Context, path string) (*docstore.Document, error) {
	if doc, ok := s.docs[path]; ok {
		return &doc, nil
	}
	return nil, docstore.ErrNotFound
}

func (s *stubStore) Watch(ctx context.Context, path string) (enrichment.Subscription, error) {
	return nil, docstore.ErrPathWatched
}

func newTestSystem(est estimates.System, store enrichment.Store) predictions.System {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	watcher := enrichment.NewWatcher(store, &enrichment.Config{PollInterval: "10ms", Timeout: "1s"}, logger)
	return predictions.New(est, watcher, logger)
}

func TestPredictClassifiesResolvedRecord(t *testing.T) {
	identity := auth.Context{UserID: "u1"}
	estimate := &estimates.Estimate{
		UserID:        "u1",
		CorrelationID: "u1_1700000000000_scan",
		DocumentPath:  "users/u1/estimates/u1_1700000000000_scan",
		UploadedAt:    time.UnixMilli(1700000000000),
	}

	store := &stubStore{docs: map[string]docstore.Document{
		estimate.DocumentPath: {
			Path: estimate.DocumentPath,
			Fields: map[string]any{
				enrichment.FieldTreatmentCost: float64(100000),
				enrichment.FieldSumInsured:    float64(120000),
				enrichment.FieldInNetwork:     float64(1),
				enrichment.FieldPolicyAge:     float64(3),
			},
		},
	}}

	sys := newTestSystem(&stubEstimates{estimate: estimate}, store)

	prediction, err := sys.Predict(context.Background(), identity, estimate.CorrelationID)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	if prediction.CorrelationID != estimate.CorrelationID {
		t.Errorf("CorrelationID = %q, want %q", prediction.CorrelationID, estimate.CorrelationID)
	}
	if prediction.Result.Label != classifier.LabelAccepted {
		t.Errorf("Label = %q, want %q", prediction.Result.Label, classifier.LabelAccepted)
	}
	if prediction.Record.SumInsured != 120000 {
		t.Errorf("SumInsured = %v, want 120000", prediction.Record.SumInsured)
	}
}

func TestPredictUnknownEstimate(t *testing.T) {
	sys := newTestSystem(&stubEstimates{}, &stubStore{})

	_, err := sys.Predict(context.Background(), auth.Context{UserID: "u1"}, "missing")
	if !errors.Is(err, estimates.ErrNotFound) {
		t.Fatalf("Predict() error = %v, want ErrNotFound", err)
	}
}

func TestPredictForeignEstimate(t *testing.T) {
	estimate := &estimates.Estimate{
		UserID:        "owner",
		CorrelationID: "owner_1_scan",
		DocumentPath:  "users/owner/estimates/owner_1_scan",
	}
	sys := newTestSystem(&stubEstimates{estimate: estimate}, &stubStore{})

	_, err := sys.Predict(context.Background(), auth.Context{UserID: "intruder"}, "owner_1_scan")
	if !errors.Is(err, estimates.ErrNotFound) {
		t.Fatalf("Predict() error = %v, want ErrNotFound for foreign estimate", err)
	}
}

func TestProgressIdleForUnwatchedEstimate(t *testing.T) {
	estimate := &estimates.Estimate{
		UserID:        "u1",
		CorrelationID: "u1_1_scan",
		DocumentPath:  "users/u1/estimates/u1_1_scan",
	}
	sys := newTestSystem(&stubEstimates{estimate: estimate}, &stubStore{})

	report, err := sys.Progress(context.Background(), auth.Context{UserID: "u1"}, "u1_1_scan")
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if report.State != "idle" || report.ProgressPercent != 0 {
		t.Errorf("Progress() = %+v, want idle at 0", report)
	}
}
