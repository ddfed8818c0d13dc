package estimates

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Infernos444/insurely/internal/auth"
	"github.com/Infernos444/insurely/pkg/docstore"
	"github.com/Infernos444/insurely/pkg/pagination"
	"github.com/Infernos444/insurely/pkg/query"
	"github.com/Infernos444/insurely/pkg/repository"
	"github.com/Infernos444/insurely/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	docs       docstore.System
	logger     *slog.Logger
	cfg        Config
	pagination pagination.Config
	now        func() time.Time
}

// New creates an estimate repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	docs docstore.System,
	logger *slog.Logger,
	cfg Config,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		docs:       docs,
		logger:     logger.With("system", "estimates"),
		cfg:        cfg,
		pagination: pagination,
		now:        time.Now,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	identity auth.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Estimate], error) {
	if !identity.Valid() {
		return nil, ErrNoIdentity
	}

	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserID", identity.UserID).
		WhereSearch(page.Search, "Filename", "CorrelationID")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count estimates: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEstimate)
	if err != nil {
		return nil, fmt.Errorf("query estimates: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, identity auth.Context, correlationID string) (*Estimate, error) {
	if !identity.Valid() {
		return nil, ErrNoIdentity
	}

	q, args := query.
		NewBuilder(projection).
		WhereEquals("UserID", identity.UserID).
		WhereEquals("CorrelationID", correlationID).
		Build()

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEstimate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) Submit(ctx context.Context, identity auth.Context, cmd CreateCommand) (*Estimate, error) {
	if !identity.Valid() {
		return nil, ErrNoIdentity
	}
	if len(cmd.Data) == 0 {
		return nil, ErrEmptyFile
	}
	if !r.cfg.Accepts(cmd.ContentType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFileType, cmd.ContentType)
	}

	if err := r.checkQuota(ctx, identity.UserID); err != nil {
		return nil, err
	}

	uploadedAt := r.now().UTC()
	correlationID := CorrelationID(identity.UserID, uploadedAt, cmd.Filename)
	key := BlobKey(identity.UserID, correlationID)
	docPath := DocumentPath(identity.UserID, correlationID)

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	q := `
		INSERT INTO estimates(id, user_id, correlation_id, filename, content_type, size_bytes, page_count, storage_key, document_path, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, user_id, correlation_id, filename, content_type, size_bytes, page_count, storage_key, document_path, uploaded_at, updated_at`

	insertArgs := []any{
		uuid.New(),
		identity.UserID,
		correlationID,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
		docPath,
		uploadedAt,
	}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Estimate, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanEstimate)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"estimate submitted",
		"correlation_id", e.CorrelationID,
		"user_id", e.UserID,
		"filename", e.Filename,
	)
	return &e, nil
}

func (r *repo) Download(ctx context.Context, identity auth.Context, correlationID string) (*storage.DownloadResult, error) {
	e, err := r.Find(ctx, identity, correlationID)
	if err != nil {
		return nil, err
	}

	result, err := r.storage.Download(ctx, e.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download estimate blob: %w", err)
	}

	return result, nil
}

func (r *repo) Delete(ctx context.Context, identity auth.Context, correlationID string) error {
	e, err := r.Find(ctx, identity, correlationID)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM estimates WHERE id = $1",
			e.ID,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, e.StorageKey); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", e.StorageKey,
			"error", delErr,
		)
	}

	if delErr := r.docs.Delete(ctx, e.DocumentPath); delErr != nil && !errors.Is(delErr, docstore.ErrNotFound) {
		r.logger.Warn(
			"enrichment document delete failed",
			"path", e.DocumentPath,
			"error", delErr,
		)
	}

	r.logger.Info("estimate deleted", "correlation_id", correlationID, "user_id", identity.UserID)
	return nil
}

// checkQuota enforces the per-user stored estimate cap before any blob
// write happens.
func (r *repo) checkQuota(ctx context.Context, userID string) error {
	countSQL, countArgs := query.
		NewBuilder(projection).
		WhereEquals("UserID", userID).
		BuildCount()

	count, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return fmt.Errorf("count stored estimates: %w", err)
	}

	if count >= r.cfg.MaxStored {
		return fmt.Errorf("%w: %d of %d stored", ErrQuotaExceeded, count, r.cfg.MaxStored)
	}
	return nil
}
