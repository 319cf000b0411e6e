package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/apperr"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/utils/apiutils"
	"github.com/rs/zerolog"
)

// Recoverer is a middleware that recovers from panics, logs the panic (and a
// backtrace), and returns a HTTP 500 (Internal Server Error) status if
// possible.
func Recoverer(next http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					// we don't recover http.ErrAbortHandler so the response
					// to the client is aborted, this should not be logged
					panic(rvr)
				}

				ctx := r.Context()
				log := zerolog.Ctx(ctx).Error().CallerSkipFrame(1)
				if err, ok := rvr.(error); ok {
					log.Err(err)
				} else {
					log.Str("panic", fmt.Sprint(rvr))
				}
				log.Bytes("stack", debug.Stack()).Msg("Panic")

				if r.Header.Get("Connection") != "Upgrade" {
					apiutils.WriteError(ctx, w, http.StatusInternalServerError, apperr.ErrUnexpectedErrorOccurred)
				}
			}
		}()
		next.ServeHTTP(w, r)
	})
}
