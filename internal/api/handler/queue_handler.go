package handler

import (
	"net/http"

	"github.com/umbraco/Umbraco.AI-sub015/internal/queue"
)

// QueueHandler serves a JSON snapshot of the work queue.
// Prometheus gauges for the same values are exposed at /metrics.
type QueueHandler struct {
	q *queue.WorkQueue
}

func NewQueueHandler(q *queue.WorkQueue) *QueueHandler {
	return &QueueHandler{q: q}
}

// GetQueue handles GET /api/v1/queue
//
// @Summary  Work queue depth and state
// @Tags     system
// @Produce  json
// @Success  200  {object}  map[string]any
// @Router   /api/v1/queue [get]
func (h *QueueHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"depth":    h.q.Len(),
		"capacity": h.q.Cap(),
		"state":    h.q.State().String(),
	})
}
