package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/umbraco/Umbraco.AI-sub015/internal/api/middleware"
	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
	"github.com/umbraco/Umbraco.AI-sub015/internal/service"
)

// PromptHandler serves the prompt endpoints.
type PromptHandler struct {
	svc    *service.PromptService
	logger *zap.Logger
}

func NewPromptHandler(svc *service.PromptService, logger *zap.Logger) *PromptHandler {
	return &PromptHandler{svc: svc, logger: logger}
}

// Save handles POST /api/v1/prompts
//
// Creates the prompt, or updates it when the alias already exists.
//
// @Summary     Create or update a prompt by alias
// @Tags        prompts
// @Accept      json
// @Produce     json
// @Param       body  body      domain.SavePromptRequest  true  "Prompt payload"
// @Success     201   {object}  domain.Prompt
// @Success     200   {object}  domain.Prompt  "Existing alias updated"
// @Success     202   {object}  domain.Prompt  "Saved; deferred work not queued"
// @Failure     422   {object}  map[string]string
// @Router      /api/v1/prompts [post]
func (h *PromptHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req domain.SavePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	correlationID := apimw.GetCorrelationID(r.Context())
	p, created, err := h.svc.Save(r.Context(), req, correlationID)
	if err != nil {
		if p != nil && errors.Is(err, domain.ErrDeferredWorkRejected) {
			w.Header().Set(HeaderDeferredWarning, domain.ErrDeferredWorkRejected.Error())
			respondJSON(w, http.StatusAccepted, p)
			return
		}
		h.logger.Warn("save prompt failed",
			zap.String("correlation_id", correlationID),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, p)
}

// GetByID handles GET /api/v1/prompts/{id}
//
// @Summary  Get a prompt by ID
// @Tags     prompts
// @Produce  json
// @Param    id   path      string  true  "Prompt UUID"
// @Success  200  {object}  domain.Prompt
// @Failure  404  {object}  map[string]string
// @Router   /api/v1/prompts/{id} [get]
func (h *PromptHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// GetByAlias handles GET /api/v1/prompts/alias/{alias}
func (h *PromptHandler) GetByAlias(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetByAlias(r.Context(), chi.URLParam(r, "alias"))
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// List handles GET /api/v1/prompts
//
// @Summary  List prompts with optional tag filter and pagination
// @Tags     prompts
// @Produce  json
// @Param    tag    query     string  false  "Only prompts carrying this tag"
// @Param    page   query     int     false  "Page number (default 1)"
// @Param    limit  query     int     false  "Items per page (default 20, max 100)"
// @Success  200    {object}  map[string]any
// @Router   /api/v1/prompts [get]
func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.PromptFilter{}
	filter.Page, filter.Limit = parsePaging(r)
	if tag := r.URL.Query().Get("tag"); tag != "" {
		filter.Tag = &tag
	}

	prompts, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list prompts failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list prompts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  prompts,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// Delete handles DELETE /api/v1/prompts/{id}
//
// @Summary  Delete a prompt
// @Tags     prompts
// @Param    id   path  string  true  "Prompt UUID"
// @Success  204
// @Success  202  "Deleted; deferred work not queued"
// @Failure  404  {object}  map[string]string
// @Router   /api/v1/prompts/{id} [delete]
func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), apimw.GetCorrelationID(r.Context()))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, domain.ErrDeferredWorkRejected):
		w.Header().Set(HeaderDeferredWarning, domain.ErrDeferredWorkRejected.Error())
		w.WriteHeader(http.StatusAccepted)
	default:
		mapError(w, err)
	}
}
