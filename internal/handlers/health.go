package handlers

import (
	"net/http"
	"time"

	"github.com/fixmyward/ward-server/internal/models"
	"github.com/fixmyward/ward-server/internal/storage"
	"go.uber.org/zap"
)

// Version is reported by the health endpoints.
const Version = "1.0.0"

var startTime = time.Now()

// HealthHandler provides health check endpoints
type HealthHandler struct {
	store  storage.Store
	logger *zap.SugaredLogger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store storage.Store, logger *zap.SugaredLogger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// Check handles GET /api/v1/health (liveness probe)
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:  "ok",
		Version: Version,
		Uptime:  time.Since(startTime).String(),
	})
}

// Ready handles GET /api/v1/health/ready (readiness probe)
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warnw("Storage ping failed", "backend", h.store.Name(), "error", err)
		respondJSON(w, http.StatusServiceUnavailable, models.HealthStatus{
			Status:  "not ready",
			Version: Version,
			Storage: "disconnected",
			Backend: h.store.Name(),
		})
		return
	}

	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:  "ready",
		Version: Version,
		Uptime:  time.Since(startTime).String(),
		Storage: "connected",
		Backend: h.store.Name(),
	})
}
