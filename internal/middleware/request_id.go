package middleware

import (
	"net/http"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/tracker"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const RequestUUIDHeader = "X-Request-UUID"

func RequestUUIDMiddleware(next http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := *zerolog.Ctx(r.Context())

		var uuidVal uuid.UUID
		uuidStr := r.Header.Get(RequestUUIDHeader)
		if uuidStr == "" {
			uuidVal = uuid.New()
		} else {
			if u, err := uuid.Parse(uuidStr); err == nil {
				uuidVal = u
			} else {
				log.
					Error().
					Err(err).
					Str("uuidStr", uuidStr).
					Str("x-header", RequestUUIDHeader).
					Msg("Error while parsing a uuid from request header")
				uuidVal = uuid.New()
			}
		}

		w.Header().Set(RequestUUIDHeader, uuidVal.String())

		ctx = tracker.ContextWithReqUUID(ctx, uuidVal)
		ctx = log.With().Str(tracker.ReqIdStrKey, uuidVal.String()).Logger().WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
