// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, blob storage, document
// store, identity verification) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Infernos444/insurely/internal/auth"
	"github.com/Infernos444/insurely/internal/config"
	"github.com/Infernos444/insurely/pkg/database"
	"github.com/Infernos444/insurely/pkg/docstore"
	"github.com/Infernos444/insurely/pkg/lifecycle"
	"github.com/Infernos444/insurely/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, blob storage, the enrichment document store,
// and token verification.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	DocStore  docstore.System
	Auth      auth.System
}

// New creates an Infrastructure from the application configuration.
// OIDC discovery runs against ctx during construction; all other systems
// defer their connections until Start.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	docs, err := docstore.New(&cfg.Docstore, logger)
	if err != nil {
		return nil, fmt.Errorf("docstore init failed: %w", err)
	}

	verifier, err := auth.New(ctx, &cfg.Auth, logger)
	if err != nil {
		return nil, fmt.Errorf("auth init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		DocStore:  docs,
		Auth:      verifier,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database, storage, and docstore hooks are registered for startup and
// shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.DocStore.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("docstore start failed: %w", err)
	}
	return nil
}
