package middleware

import (
	"net/http"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/utils/mimes"
)

// Heartbeat answers GET/HEAD on endpoint with "pong".
func Heartbeat(endpoint string) func(next http.Handler) http.HandlerFunc {
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == endpoint {
				w.Header().Set("Content-Type", mimes.Text_plain)
				w.WriteHeader(http.StatusOK)
				if r.Method == http.MethodGet {
					w.Write([]byte("pong"))
				}
				return
			}
			next.ServeHTTP(w, r)
		}
	}
}
