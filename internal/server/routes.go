package server

import (
	"net/http"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/middleware"
	"github.com/rs/cors"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /searchMovie", middleware.MiddlewareChain(
		s.searchMovie,
		middleware.Timeout(s.conf.OmdbTimeout),
	))
	mux.HandleFunc("/", s.unsupportedRoute)

	rateLimitGlobal := middleware.RateLimiter(
		func(r *http.Request) string {
			// since we are using the RealIp() middleware
			// it should be safe to use r.RemoteAddr as limit key
			return r.RemoteAddr
		},
		s.limiter,
		s.now,
	)

	return middleware.MiddlewareChain(
		mux.ServeHTTP,
		middleware.LoggerInjector(s.log),
		middleware.Recoverer,
		// required for the rate limiter to function correctly and for logging
		middleware.RealIp(s.conf.TrustedIpHeaders...),
		middleware.RequestUUIDMiddleware,
		middleware.RequestLogger,
		// preflight requests are answered here and never reach the rate limiter
		middleware.Cors(cors.Options{
			AllowedOrigins: s.conf.CorsAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         86400,
		}),
		rateLimitGlobal,
		middleware.Heartbeat("/ping"),
	)
}
