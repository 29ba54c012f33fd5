package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kiranapos/backend/pkg/metrics"
)

// Metrics records request counts and latency per chi route pattern, so
// /api/v1/sales/{saleId} stays one series regardless of the id.
func Metrics(reg *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if reg == nil {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if ctx := chi.RouteContext(r.Context()); ctx != nil {
				if pattern := ctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}

			reg.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
			reg.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}
