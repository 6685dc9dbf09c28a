package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
)

// HeaderDeferredWarning is set on 202 responses whose entity was saved but
// whose audit or notification work could not be queued.
const HeaderDeferredWarning = "X-Deferred-Work-Warning"

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// mapError translates domain sentinel errors to HTTP status codes.
// All mapping lives here so individual handlers stay concise.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidAlias),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidContent),
		errors.Is(err, domain.ErrInvalidProfile),
		errors.Is(err, domain.ErrInvalidAction):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrDeferredWorkRejected),
		errors.Is(err, domain.ErrQueueClosed):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func parsePaging(r *http.Request) (page, limit int) {
	q := r.URL.Query()
	page, limit = 1, 20
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}
