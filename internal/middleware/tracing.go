package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const traceIDHeader = "X-Request-ID"

type traceIDKey struct{}

// Tracing assigns each request an ID so a webhook delivery can be correlated
// with its record-update call in the logs. Stripe does not send a request ID,
// so one is minted for every delivery.
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		w.Header().Set(traceIDHeader, traceID)
		ctx := context.WithValue(r.Context(), traceIDKey{}, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}
