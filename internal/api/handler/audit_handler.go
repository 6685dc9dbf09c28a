package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
	"github.com/umbraco/Umbraco.AI-sub015/internal/service"
)

// AuditHandler serves the read-only audit log.
type AuditHandler struct {
	svc    *service.AuditService
	logger *zap.Logger
}

func NewAuditHandler(svc *service.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/audit
//
// @Summary  List audit entries, newest first
// @Tags     audit
// @Produce  json
// @Param    entity_type  query     string  false  "prompt, connection, profile or agent"
// @Param    entity_id    query     string  false  "Entity UUID"
// @Param    from         query     string  false  "Created after (RFC3339)"
// @Param    to           query     string  false  "Created before (RFC3339)"
// @Param    page         query     int     false  "Page number (default 1)"
// @Param    limit        query     int     false  "Items per page (default 20, max 100)"
// @Success  200          {object}  map[string]any
// @Failure  400          {object}  map[string]string
// @Router   /api/v1/audit [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseAuditFilter(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid entity_type")
		return
	}

	entries, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list audit entries failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list audit entries")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  entries,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

func parseAuditFilter(r *http.Request) (domain.AuditFilter, bool) {
	q := r.URL.Query()
	filter := domain.AuditFilter{}
	filter.Page, filter.Limit = parsePaging(r)

	if s := q.Get("entity_type"); s != "" {
		et := domain.EntityType(s)
		if !et.IsValid() {
			return filter, false
		}
		filter.EntityType = &et
	}
	if id := q.Get("entity_id"); id != "" {
		filter.EntityID = &id
	}
	if f := q.Get("from"); f != "" {
		if t, err := time.Parse(time.RFC3339, f); err == nil {
			filter.From = &t
		}
	}
	if to := q.Get("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}
	return filter, true
}
