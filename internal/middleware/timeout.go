package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/apperr"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/utils/apiutils"
	"github.com/rs/zerolog"
)

// Timeout cancels the request ctx after d and answers 504 Gateway Timeout.
//
// The handler must watch ctx.Done() and return WITHOUT writing a response once
// the deadline is exceeded, the 504 is written here after it returns.
func Timeout(d time.Duration) func(next http.Handler) http.HandlerFunc {
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctxWithCancel, cancelFunc := context.WithTimeout(r.Context(), d)

			defer func() {
				cancelFunc()
				if errors.Is(ctxWithCancel.Err(), context.DeadlineExceeded) {
					zerolog.Ctx(r.Context()).Warn().Err(context.DeadlineExceeded).Int("status_code", http.StatusGatewayTimeout).
						Msgf("Warning a request timed out. Sending Gateway-Timeout %d status code", http.StatusGatewayTimeout)
					apiutils.WriteError(r.Context(), w, http.StatusGatewayTimeout, apperr.ErrGatewayTimeout)
				}
			}()

			next.ServeHTTP(w, r.WithContext(ctxWithCancel))
		}
	}
}
