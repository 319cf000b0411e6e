package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/apperr"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/middleware/ratelimiter"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/utils/apiutils"
	"github.com/rs/zerolog"
)

// RateLimiter rejects with 429 before next runs, so a rejected request costs
// nothing downstream. now is the clock handed to the limiter, nil means time.Now.
func RateLimiter(limitKeyFn func(r *http.Request) string, limiter ratelimiter.Limiter, now func() time.Time) func(next http.Handler) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := limitKeyFn(r)

			if limiter.Check(ctx, key, now()) {
				zerolog.Ctx(ctx).Info().Str("limit_key", key).Msg("Rate limited request")
				// Request limit per ${config.TimeFrame}
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Config().RequestsPerTimeFrame))
				apiutils.WriteError(ctx, w, http.StatusTooManyRequests, apperr.ErrTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}
