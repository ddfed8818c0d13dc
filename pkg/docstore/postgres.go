package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Infernos444/insurely/pkg/lifecycle"
)

// updateBuffer bounds pending deliveries per subscription. A full buffer
// drops the notification; subscribers recover via their poll fallback.
const updateBuffer = 4

type postgres struct {
	pool    *pgxpool.Pool
	channel string
	logger  *slog.Logger

	mu   sync.Mutex
	subs map[string]*Subscription
}

// New creates a Postgres-backed document store from the given configuration.
// The connection pool is created lazily; no connection is established until
// Start registers the listener.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	pool, err := pgxpool.New(context.Background(), cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("create document store pool: %w", err)
	}

	return &postgres{
		pool:    pool,
		channel: cfg.Channel,
		logger:  logger.With("system", "docstore"),
		subs:    make(map[string]*Subscription),
	}, nil
}

func (p *postgres) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("starting document store")

	lc.OnStartup(func() {
		if err := p.pool.Ping(lc.Context()); err != nil {
			p.logger.Error("document store ping failed", "error", err)
			return
		}
		p.logger.Info("document store ready", "channel", p.channel)
	})

	go p.listen(lc.Context())

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		p.closeAll()
		p.pool.Close()
		p.logger.Info("document store closed")
	})

	return nil
}

func (p *postgres) Get(ctx context.Context, path string) (*Document, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}

	var (
		raw       []byte
		updatedAt time.Time
	)

	row := p.pool.QueryRow(ctx,
		"SELECT fields, updated_at FROM documents WHERE path = $1",
		path,
	)
	if err := row.Scan(&raw, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document %s: %w", path, err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", path, err)
	}

	return &Document{
		Path:      path,
		Fields:    fields,
		UpdatedAt: updatedAt,
	}, nil
}

func (p *postgres) Put(ctx context.Context, path string, fields map[string]any) error {
	if err := validatePath(path); err != nil {
		return err
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", path, err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO documents (path, fields, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (path) DO UPDATE SET fields = EXCLUDED.fields, updated_at = now()`,
		path, raw,
	)
	if err != nil {
		return fmt.Errorf("put document %s: %w", path, err)
	}

	return nil
}

func (p *postgres) Delete(ctx context.Context, path string) error {
	if err := validatePath(path); err != nil {
		return err
	}

	tag, err := p.pool.Exec(ctx, "DELETE FROM documents WHERE path = $1", path)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", path, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *postgres) Watch(ctx context.Context, path string) (*Subscription, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.subs[path]; exists {
		return nil, ErrPathWatched
	}

	sub := &Subscription{
		path:    path,
		updates: make(chan Document, updateBuffer),
	}
	sub.release = func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.subs[path] == sub {
			delete(p.subs, path)
		}
		close(sub.updates)
	}

	p.subs[path] = sub
	return sub, nil
}

// listen holds a dedicated connection on LISTEN and fans notifications out
// to subscriptions. Notification payloads carry the changed document path.
func (p *postgres) listen(ctx context.Context) {
	for {
		if err := p.listenOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("document listener failed, reconnecting", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

func (p *postgres) listenOnce(ctx context.Context) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listener connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+p.channel); err != nil {
		return fmt.Errorf("listen on %s: %w", p.channel, err)
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		p.dispatch(ctx, notification.Payload)
	}
}

func (p *postgres) dispatch(ctx context.Context, path string) {
	p.mu.Lock()
	sub, ok := p.subs[path]
	p.mu.Unlock()

	if !ok {
		return
	}

	doc, err := p.Get(ctx, path)
	if err != nil {
		p.logger.Warn("notified document read failed", "path", path, "error", err)
		return
	}

	select {
	case sub.updates <- *doc:
	default:
		p.logger.Debug("subscription buffer full, dropping update", "path", path)
	}
}

func (p *postgres) closeAll() {
	p.mu.Lock()
	subs := make([]*Subscription, 0, len(p.subs))
	for _, sub := range p.subs {
		subs = append(subs, sub)
	}
	p.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}
