package api

import (
	"github.com/Infernos444/insurely/internal/config"
	"github.com/Infernos444/insurely/internal/enrichment"
	"github.com/Infernos444/insurely/internal/estimates"
	"github.com/Infernos444/insurely/internal/infrastructure"
	"github.com/Infernos444/insurely/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Enrichment enrichment.Config
	Estimates  estimates.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			DocStore:  infra.DocStore,
			Auth:      infra.Auth,
		},
		Pagination: cfg.API.Pagination,
		Enrichment: cfg.Enrichment,
		Estimates:  cfg.Estimates,
	}
}
