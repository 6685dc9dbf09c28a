package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// HeaderCorrelationID carries the request's correlation id in and out.
const HeaderCorrelationID = "X-Correlation-ID"

const maxCorrelationIDLen = 128

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// CorrelationID takes the caller's X-Correlation-ID, or generates a UUID when
// it is missing or unusable, and stores it on the request context. The id
// travels with every work item the request queues, so background logs can be
// joined back to the request that caused them.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderCorrelationID)
		if !usableCorrelationID(id) {
			id = uuid.New().String()
		}
		w.Header().Set(HeaderCorrelationID, id)
		next.ServeHTTP(w, r.WithContext(WithCorrelationID(r.Context(), id)))
	})
}

// WithCorrelationID returns a copy of ctx carrying id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// GetCorrelationID returns the id stored by CorrelationID, or "".
func GetCorrelationID(ctx context.Context) string {
	v, _ := ctx.Value(correlationIDKey).(string)
	return v
}

// usableCorrelationID rejects empty, oversized and non-printable ids, since
// the value is echoed into response headers and log lines.
func usableCorrelationID(id string) bool {
	if id == "" || len(id) > maxCorrelationIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
