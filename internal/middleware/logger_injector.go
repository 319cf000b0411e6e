package middleware

import (
	"net/http"

	"github.com/rs/zerolog"
)

// LoggerInjector puts log in the request context, read it back with zerolog.Ctx.
func LoggerInjector(log zerolog.Logger) func(next http.Handler) http.HandlerFunc {
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(log.WithContext(r.Context())))
		}
	}
}
