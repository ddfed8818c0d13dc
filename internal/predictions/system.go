package predictions

import (
	"context"
	"log/slog"
	"time"

	"github.com/Infernos444/insurely/internal/auth"
	"github.com/Infernos444/insurely/internal/classifier"
	"github.com/Infernos444/insurely/internal/enrichment"
	"github.com/Infernos444/insurely/internal/estimates"
)

// System defines the public contract for prediction operations.
type System interface {
	Handler() *Handler

	Predict(ctx context.Context, identity auth.Context, correlationID string) (*Prediction, error)
	Progress(ctx context.Context, identity auth.Context, correlationID string) (*ProgressReport, error)
}

type system struct {
	estimates estimates.System
	watcher   *enrichment.Watcher
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a prediction system over the estimate domain and the
// enrichment watcher.
func New(est estimates.System, watcher *enrichment.Watcher, logger *slog.Logger) System {
	return &system{
		estimates: est,
		watcher:   watcher,
		logger:    logger.With("system", "predictions"),
		now:       time.Now,
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Predict blocks until the enrichment record for the caller's estimate
// appears, then classifies it. The estimate lookup scopes the operation to
// the caller; an unknown or foreign correlation ID fails before any wait
// begins.
func (s *system) Predict(ctx context.Context, identity auth.Context, correlationID string) (*Prediction, error) {
	e, err := s.estimates.Find(ctx, identity, correlationID)
	if err != nil {
		return nil, err
	}

	record, err := s.watcher.Await(ctx, e.CorrelationID, e.DocumentPath)
	if err != nil {
		return nil, err
	}

	result := classifier.Classify(*record)

	s.logger.Info(
		"prediction computed",
		"correlation_id", e.CorrelationID,
		"label", result.Label,
	)

	return &Prediction{
		CorrelationID: e.CorrelationID,
		Record:        *record,
		Result:        result,
		ComputedAt:    s.now().UTC(),
	}, nil
}

// Progress reports the enrichment wait state for the caller's estimate.
// Estimates with no active or resolved wait report an idle state.
func (s *system) Progress(ctx context.Context, identity auth.Context, correlationID string) (*ProgressReport, error) {
	e, err := s.estimates.Find(ctx, identity, correlationID)
	if err != nil {
		return nil, err
	}

	pct, state, _ := s.watcher.Progress(e.CorrelationID)

	return &ProgressReport{
		CorrelationID:   e.CorrelationID,
		State:           state.String(),
		ProgressPercent: pct,
	}, nil
}
