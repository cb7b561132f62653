package ingest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"leadapi/internal/httpx"
	"leadapi/internal/lead"
	"leadapi/internal/storage"
)

const readyTimeout = 2 * time.Second

type HTTPHandler struct {
	svc     *Service
	backend storage.Backend
	log     *zap.Logger
}

func NewHTTPHandler(svc *Service, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, backend: svc.backend, log: log}
}

// Ingest handles POST /ingest.
func (h *HTTPHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	l, err := lead.Parse(r.Body)
	if err != nil {
		h.writeParseError(w, r, err)
		return
	}

	res, err := h.svc.Ingest(r.Context(), l)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "lead could not be stored, try again later", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", nil)
		return
	}

	if res.Receipt.HasID {
		httpx.JSONSuccess(w, r, map[string]any{"id": res.Receipt.ID})
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{
		"rows_appended": 1,
		"data":          res.Record,
	})
}

func (h *HTTPHandler) writeParseError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
		return
	}

	var verrs lead.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]httpx.ErrorDetail, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, httpx.ErrorDetail{
				Field:   fe.Field,
				Rule:    string(fe.Kind),
				Message: fe.Message,
			})
		}
		h.log.Debug("lead rejected",
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.Int("violations", len(details)),
		)
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Request body must be a JSON object", nil)
}

// Health handles GET /health. It never touches the backend.
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /readyz by pinging backends that hold a connection.
func (h *HTTPHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.backend.(storage.Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			h.log.Warn("readiness ping failed", zap.String("backend", h.backend.Kind()), zap.Error(err))
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_READY", "storage backend is not reachable", nil)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"status":  "ready",
		"backend": h.backend.Kind(),
	})
}
