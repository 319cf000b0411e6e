package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/apperr"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/omdb"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/utils/apiutils"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/utils/mimes"
	"github.com/rs/zerolog"
)

func (s *Server) searchMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	zlog := zerolog.Ctx(ctx)

	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		apiutils.WriteError(ctx, w, http.StatusNotFound, apperr.ErrNoMovieTitle)
		return
	}

	body, err := s.movies.SearchByTitle(ctx, title)
	if err != nil {
		if ctx.Err() != nil {
			// Timeout middleware (or the client going away) owns the response
			zlog.Warn().Err(ctx.Err()).Str("title", title).Msg("searchMovie: request context done before the upstream answered")
			return
		}
		if errors.Is(err, omdb.ErrUnexpectedStatus) {
			apiutils.WriteError(ctx, w, http.StatusBadRequest, errors.Join(err, apperr.ErrSomethingWentWrong))
			return
		}
		zlog.Err(err).Str("title", title).Msg("searchMovie: can not reach the movie service")
		apiutils.WriteError(ctx, w, http.StatusNotFound, errors.Join(err, apperr.ErrMovieServiceDown))
		return
	}

	apiutils.WriteRawJson(ctx, w, http.StatusOK, body)
}

func (s *Server) unsupportedRoute(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", mimes.Text_plain)
	w.WriteHeader(http.StatusBadRequest)
	w.Write([]byte(apperr.ErrUnsupportedRoute.Error()))
}
