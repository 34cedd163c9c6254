package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/klye32/fit-coach/internal/telemetry/metrics"
)

// responseWriter remembers the written status code for metrics.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func RequestMetrics(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metricsManager.GaugeRequests.Inc()
			defer metricsManager.GaugeRequests.Dec()

			rw := newResponseWriter(w)
			start := time.Now()

			next.ServeHTTP(rw, r)

			statusCode := strconv.Itoa(rw.statusCode)
			metricsManager.CounterRequests.WithLabelValues(r.Method, statusCode).Inc()

			routeName := "unknown"
			if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
				routeName = route.GetName()
			}
			metricsManager.HistogramRequestDuration.
				WithLabelValues(routeName, r.Method, statusCode).
				Observe(time.Since(start).Seconds())
		})
	}
}
