package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Infernos444/insurely/pkg/docstore"
)

// State is the lifecycle phase of an enrichment wait.
type State int

const (
	StateIdle State = iota
	StateWatching
	StateResolved
	StateTimedOut
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWatching:
		return "watching"
	case StateResolved:
		return "resolved"
	case StateTimedOut:
		return "timed_out"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Subscription is the change feed for a single document path.
type Subscription interface {
	Updates() <-chan docstore.Document
	Cancel()
}

// Store is the document store surface the watcher depends on.
type Store interface {
	Get(ctx context.Context, path string) (*docstore.Document, error)
	Watch(ctx context.Context, path string) (Subscription, error)
}

// NewStore adapts a docstore.System to the watcher's Store interface.
func NewStore(sys docstore.System) Store {
	return systemStore{sys: sys}
}

type systemStore struct {
	sys docstore.System
}

func (s systemStore) Get(ctx context.Context, path string) (*docstore.Document, error) {
	return s.sys.Get(ctx, path)
}

func (s systemStore) Watch(ctx context.Context, path string) (Subscription, error) {
	sub, err := s.sys.Watch(ctx, path)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Watcher waits for enrichment records to appear in the document store.
// Each correlation ID has at most one live wait session; concurrent Await
// calls for the same ID share it, and resolved records are cached so later
// calls return without touching the store.
type Watcher struct {
	store        Store
	logger       *slog.Logger
	pollInterval time.Duration
	timeout      time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

// NewWatcher creates a Watcher with the configured poll interval and timeout.
func NewWatcher(store Store, cfg *Config, logger *slog.Logger) *Watcher {
	return &Watcher{
		store:        store,
		logger:       logger.With("system", "enrichment"),
		pollInterval: cfg.PollIntervalDuration(),
		timeout:      cfg.TimeoutDuration(),
		sessions:     make(map[string]*session),
	}
}

// Await blocks until the enrichment record for correlationID appears at the
// given document path, the configured timeout elapses (ErrTimeout), the
// store fails (ErrStoreFailure), or ctx is cancelled. The wait itself runs
// in a session goroutine; cancelling ctx detaches this caller, and when the
// last caller detaches the session releases its subscription.
func (w *Watcher) Await(ctx context.Context, correlationID, path string) (*Record, error) {
	s := w.join(correlationID, path)
	defer w.leave(s)

	select {
	case <-s.done:
		return s.result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Progress reports the advisory progress (0–100) and state for an in-flight
// or resolved wait. Progress is monotonically non-decreasing and stays
// below 100 until the wait resolves. Returns false when no session exists.
func (w *Watcher) Progress(correlationID string) (int, State, bool) {
	w.mu.Lock()
	s, ok := w.sessions[correlationID]
	w.mu.Unlock()

	if !ok {
		return 0, StateIdle, false
	}

	return s.advance(), s.currentState(), true
}

func (w *Watcher) join(correlationID, path string) *session {
	w.mu.Lock()
	defer w.mu.Unlock()

	if s, ok := w.sessions[correlationID]; ok {
		s.attach()
		return s
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		correlationID: correlationID,
		path:          path,
		started:       time.Now(),
		timeout:       w.timeout,
		cancel:        cancel,
		done:          make(chan struct{}),
		state:         StateIdle,
		waiters:       1,
	}
	w.sessions[correlationID] = s

	go w.run(ctx, s)
	return s
}

func (w *Watcher) leave(s *session) {
	if s.detach() {
		s.cancel()
	}
}

func (w *Watcher) run(ctx context.Context, s *session) {
	defer s.cancel()

	record, err := w.wait(ctx, s)
	s.complete(record, err)

	if err != nil {
		// Failed sessions are forgotten so a retry starts over from idle.
		w.mu.Lock()
		if w.sessions[s.correlationID] == s {
			delete(w.sessions, s.correlationID)
		}
		w.mu.Unlock()

		w.logger.Warn(
			"enrichment wait ended without record",
			"correlation_id", s.correlationID,
			"state", s.currentState().String(),
			"error", err,
		)
		return
	}

	w.logger.Info("enrichment resolved", "correlation_id", s.correlationID)
}

func (w *Watcher) wait(ctx context.Context, s *session) (*Record, error) {
	s.setState(StateWatching)

	// Point read first: enrichment may have completed before the wait began.
	doc, err := w.store.Get(ctx, s.path)
	if err == nil {
		record := FromDocument(doc)
		return &record, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	sub, err := w.store.Watch(ctx, s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	defer sub.Cancel()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	timer := time.NewTimer(s.remaining())
	defer timer.Stop()

	for {
		select {
		case doc, ok := <-sub.Updates():
			if !ok {
				return nil, fmt.Errorf("%w: %w", ErrStoreFailure, docstore.ErrListenerClosed)
			}
			record := FromDocument(&doc)
			return &record, nil

		case <-ticker.C:
			doc, err := w.store.Get(ctx, s.path)
			if err == nil {
				record := FromDocument(doc)
				return &record, nil
			}
			if !errors.Is(err, docstore.ErrNotFound) {
				return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
			}

		case <-timer.C:
			return nil, ErrTimeout

		case <-ctx.Done():
			return nil, ErrAbandoned
		}
	}
}

// session is one shared wait for a correlation ID. All fields behind mu;
// done closes exactly once when the session reaches a terminal state.
type session struct {
	correlationID string
	path          string
	started       time.Time
	timeout       time.Duration
	cancel        context.CancelFunc
	done          chan struct{}

	mu       sync.Mutex
	state    State
	waiters  int
	progress int
	record   *Record
	err      error
}

func (s *session) attach() {
	s.mu.Lock()
	s.waiters++
	s.mu.Unlock()
}

// detach reports whether the departing waiter was the last one on a
// still-live session, in which case the caller must cancel it.
func (s *session) detach() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.waiters--
	return s.waiters == 0 && (s.state == StateIdle || s.state == StateWatching)
}

func (s *session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *session) currentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *session) remaining() time.Duration {
	d := s.timeout - time.Since(s.started)
	if d < 0 {
		return 0
	}
	return d
}

func (s *session) complete(record *Record, err error) {
	s.mu.Lock()
	switch {
	case err == nil:
		s.state = StateResolved
		s.record = record
		s.progress = 100
	case errors.Is(err, ErrTimeout):
		s.state = StateTimedOut
	default:
		s.state = StateFailed
	}
	s.err = err
	s.mu.Unlock()

	close(s.done)
}

func (s *session) result() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record, s.err
}

// advance computes the advisory progress estimate, keeping it monotonic and
// capped at 99 until resolution.
func (s *session) advance() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateResolved {
		return 100
	}

	pct := 0
	if s.timeout > 0 {
		pct = int(time.Since(s.started) * 99 / s.timeout)
	}
	if pct > 99 {
		pct = 99
	}
	if pct > s.progress {
		s.progress = pct
	}

	return s.progress
}
