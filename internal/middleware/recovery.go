package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/klye32/fit-coach/internal/telemetry/metrics"
	"github.com/klye32/fit-coach/pkg"
)

func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
					log.Errorf("=> handle request panic: %v", r)
					pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
