package predictions

import (
	"log/slog"
	"net/http"

	"github.com/Infernos444/insurely/internal/auth"
	"github.com/Infernos444/insurely/internal/estimates"
	"github.com/Infernos444/insurely/pkg/handlers"
	"github.com/Infernos444/insurely/pkg/routes"
)

// Handler provides HTTP endpoints for prediction operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "predictions"),
	}
}

// Routes returns the route group definition for prediction endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/predictions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{correlationId}", Handler: h.Predict},
			{Method: "GET", Pattern: "/{correlationId}/progress", Handler: h.Progress},
		},
	}
}

// Predict waits for enrichment and returns the classification. The request
// blocks until the record appears or the wait times out; clients abandon a
// wait by closing the request.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, estimates.ErrNoIdentity)
		return
	}

	prediction, err := h.sys.Predict(r.Context(), identity, r.PathValue("correlationId"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, prediction)
}

// Progress returns the advisory progress of an enrichment wait.
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, estimates.ErrNoIdentity)
		return
	}

	report, err := h.sys.Progress(r.Context(), identity, r.PathValue("correlationId"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}
