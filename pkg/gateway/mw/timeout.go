package mw

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds each request's context so a hung upstream call cannot hold
// the request open indefinitely. Adapters honor the context and surface the
// expiry as an error, which the boundary maps to a timeout envelope.
func Timeout(d time.Duration, next http.Handler) http.Handler {
	if d <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
