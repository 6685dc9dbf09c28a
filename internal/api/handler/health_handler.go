package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/umbraco/Umbraco.AI-sub015/internal/queue"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	db Pinger
	q  *queue.WorkQueue
}

// NewHealthHandler accepts a nil db, in which case readiness only reflects
// the work queue.
func NewHealthHandler(db Pinger, q *queue.WorkQueue) *HealthHandler {
	return &HealthHandler{db: db, q: q}
}

// Health handles GET /health
//
// @Summary  Liveness probe
// @Tags     system
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /ready
//
// Reports 503 once the queue stops accepting work so load balancers stop
// routing writes to an instance that is shutting down.
//
// @Summary  Readiness probe
// @Tags     system
// @Produce  json
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  map[string]string
// @Router   /ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if state := h.q.State(); state != queue.StateOpen {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "queue": state.String()})
		return
	}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": err.Error()})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
