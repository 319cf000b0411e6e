package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/appenv"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/middleware/ratelimiter"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/middleware/ratelimiter/mem_ratelimiter"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/middleware/ratelimiter/redis_ratelimiter"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/omdb"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/redisdb"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// MovieSearcher fetches the movie-data document for a title.
type MovieSearcher interface {
	SearchByTitle(ctx context.Context, title string) (json.RawMessage, error)
}

type Server struct {
	conf    appenv.Config
	log     zerolog.Logger
	rdb     *redis.Client
	limiter ratelimiter.Limiter
	movies  MovieSearcher
	now     func() time.Time
}

// NewServer wires the limiter store and the upstream client from conf. The
// background work (store vacuum) stops when ctx is done.
func NewServer(ctx context.Context, conf appenv.Config, log zerolog.Logger) (*http.Server, func(), error) {
	ctx = log.WithContext(ctx)

	s := &Server{
		conf: conf,
		log:  log,
		now:  time.Now,
	}

	var store ratelimiter.Store
	switch conf.RateLimitStore {
	case appenv.RateLimitStoreRedis:
		rdb, err := redisdb.NewRedisClient(ctx, log, conf.Redis)
		if err != nil {
			return nil, nil, err
		}
		s.rdb = rdb
		store = redis_ratelimiter.NewRedisStore(rdb, 2*conf.RateLimit.TimeFrame)
	default:
		memStore := mem_ratelimiter.NewMemStore(mem_ratelimiter.WithIdleTTL(conf.RateLimit.TimeFrame))
		memStore.StartVacuumProc(ctx, time.Minute)
		store = memStore
	}

	limiter, err := ratelimiter.NewFixedWindowLimiter(store, conf.RateLimit)
	if err != nil {
		s.close()
		return nil, nil, err
	}
	s.limiter = limiter

	movies, err := omdb.NewClient(omdb.Config{
		BaseURL:           conf.OmdbBaseURL,
		APIKey:            conf.OmdbAPIKey,
		RequestsPerSecond: conf.OmdbRequestsPerSecond,
		Timeout:           conf.OmdbTimeout,
	})
	if err != nil {
		s.close()
		return nil, nil, err
	}
	s.movies = movies

	log.Info().
		Str("store", conf.RateLimitStore).
		Int("max_requests", conf.RateLimit.RequestsPerTimeFrame).
		Dur("window", conf.RateLimit.TimeFrame).
		Msg("Rate limiter ready")

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", conf.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: conf.OmdbTimeout + 5*time.Second,
	}, s.close, nil
}

func (s *Server) close() {
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			s.log.Err(err).Msg("Error while closing the redis client")
		}
	}
}
