package api

import (
	"net/http"

	"github.com/Infernos444/insurely/internal/config"
	"github.com/Infernos444/insurely/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Estimates.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Predictions.Handler().Routes(),
		domain.Prescriptions.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
	)
}
