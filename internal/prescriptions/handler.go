package prescriptions

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Infernos444/insurely/internal/auth"
	"github.com/Infernos444/insurely/pkg/handlers"
	"github.com/Infernos444/insurely/pkg/routes"
	"github.com/Infernos444/insurely/pkg/storage"
)

const defaultPageSize int32 = 50

// Handler provides HTTP endpoints for prescription operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "prescriptions"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for prescription endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/prescriptions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{name}", Handler: h.Download},
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "DELETE", Pattern: "/{name}", Handler: h.Delete},
		},
	}
}

// List returns one page of the caller's prescriptions, newest first.
// Supports marker-based continuation via the marker and max_results
// query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrNoIdentity)
		return
	}

	maxResults, err := storage.ParseMaxResults(r.URL.Query().Get("max_results"), defaultPageSize)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.List(r.Context(), identity, r.URL.Query().Get("marker"), maxResults)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Upload processes a multipart form containing one or more prescription
// files under the "files" field. Files are stored concurrently; the
// response reports a per-file outcome.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrNoIdentity)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmptyBatch)
		return
	}

	headers := r.MultipartForm.File["files"]
	files := make([]File, 0, len(headers))

	for _, header := range headers {
		part, err := header.Open()
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmptyBatch)
			return
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmptyBatch)
			return
		}

		files = append(files, File{
			Data:        data,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		})
	}

	results, err := h.sys.UploadBatch(r.Context(), identity, files)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, results)
}

// Download streams a stored prescription back to the caller.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrNoIdentity)
		return
	}

	result, err := h.sys.Download(r.Context(), identity, r.PathValue("name"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	if result.ContentType != "" {
		w.Header().Set("Content-Type", result.ContentType)
	}
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}

	if _, err := io.Copy(w, result.Body); err != nil {
		h.logger.Warn("prescription download stream interrupted", "error", err)
	}
}

// Delete removes a stored prescription.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrNoIdentity)
		return
	}

	if err := h.sys.Delete(r.Context(), identity, r.PathValue("name")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
