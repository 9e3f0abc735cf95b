package handler

import (
	"log/slog"
	"net/http"

	"resumebank/internal/httputil"
)

// SystemHandler serves liveness and cache administration
type SystemHandler struct {
	queries SystemQueries
	logger  *slog.Logger
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(queries SystemQueries, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{
		queries: queries,
		logger:  logger,
	}
}

// HealthCheck reports that the process is serving and the cache state
// GET /health
func (h *SystemHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondEnvelope(w, h.queries.Health(r.Context()))
}

// Status returns a value that only changes when the cache entry expires
// GET /status
func (h *SystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	httputil.RespondEnvelope(w, h.queries.Status(r.Context()))
}

// ResetCache flushes the cache
// POST /api/cache/reset?id=<reset id>
func (h *SystemHandler) ResetCache(w http.ResponseWriter, r *http.Request) {
	env := h.queries.ResetCache(r.Context(), r.URL.Query().Get("id"))
	if env.Status == http.StatusForbidden {
		h.logger.Warn("cache reset refused", "remote_addr", r.RemoteAddr)
	}
	httputil.RespondEnvelope(w, env)
}
