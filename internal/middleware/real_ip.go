package middleware

import (
	"net"
	"net/http"
	"net/netip"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/apperr"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/tracker"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/utils/apiutils"
	"github.com/rs/zerolog"
)

// RealIp replaces r.RemoteAddr with the client ip (no port). The first trusted
// header holding a valid ip wins over the socket address.
func RealIp(trustedIpHeaders ...string) func(next http.Handler) http.HandlerFunc {
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			zlog := *zerolog.Ctx(ctx)

			r.RemoteAddr = RealIpFromRequest(r, trustedIpHeaders...)

			zlog = zlog.With().Str("client_ip", r.RemoteAddr).Logger()
			ctx = zlog.WithContext(ctx)

			requestIpAddres, err := netip.ParseAddr(r.RemoteAddr)
			if err != nil {
				zlog.Err(err).Msg("RealIp middleware: can not parse the remoteAddr using netip pkg")
				apiutils.WriteError(ctx, w, http.StatusBadRequest, apperr.ErrInvalidRemoteAddr)
				return
			}
			ctx = tracker.ContextWithReqIP(ctx, requestIpAddres)

			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

func RealIpFromRequest(r *http.Request, trustedIpHeaders ...string) string {
	for _, trustedIpHeader := range trustedIpHeaders {
		if headerVal := r.Header.Get(trustedIpHeader); headerVal != "" {
			if net.ParseIP(headerVal) != nil {
				return canonicalizeIP(headerVal)
			}
		}
	}

	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return canonicalizeIP(ip)
	}

	return r.RemoteAddr
}
