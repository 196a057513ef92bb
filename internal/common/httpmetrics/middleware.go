package httpmetrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Deek-011/formbot/internal/observability/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware is installed with router.Use so the matched route is known.
func Middleware(next http.Handler) http.Handler {
	return instrument(next, RouteLabel)
}

// Unmatched wraps the router's NotFound and MethodNotAllowed handlers, which
// mux runs without its middleware chain.
func Unmatched(next http.Handler) http.Handler {
	return instrument(next, func(*http.Request) string { return UnmatchedRoute })
}

func instrument(next http.Handler, label func(*http.Request) string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		method := r.Method
		path := label(r)

		metrics.HTTPRequestsTotal.WithLabelValues(method, path).Inc()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		statusClass := fmt.Sprintf("%dxx", rec.status/100)
		metrics.HTTPRequestDurationSeconds.WithLabelValues(method, path, statusClass).Observe(time.Since(start).Seconds())
	})
}
