package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Tracef("=> [%s] %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
}
