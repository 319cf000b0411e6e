package appenv

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/middleware/ratelimiter"
)

const (
	RateLimitStoreMem   = "mem"
	RateLimitStoreRedis = "redis"
)

type Config struct {
	Port int

	OmdbAPIKey            string
	OmdbBaseURL           string
	OmdbRequestsPerSecond float64
	OmdbTimeout           time.Duration

	RateLimit      ratelimiter.Config
	RateLimitStore string

	CorsAllowedOrigins []string
	TrustedIpHeaders   []string

	LogFile string

	Redis RedisConfig
}

type RedisConfig struct {
	Addr       string
	Username   string
	Password   string
	DB         int
	ClientName string
}

// ReadConfig builds the Config from the process env. Call Load first.
func ReadConfig() (Config, error) {
	var errs []error

	conf := Config{
		Port:                  intEnv("PORT", 4000, &errs),
		OmdbAPIKey:            os.Getenv("OMDB_API_KEY"),
		OmdbBaseURL:           strEnv("OMDB_BASE_URL", "http://www.omdbapi.com/"),
		OmdbRequestsPerSecond: floatEnv("OMDB_RPS", 5, &errs),
		OmdbTimeout:           durationEnv("OMDB_TIMEOUT", 10*time.Second, &errs),
		RateLimit: ratelimiter.Config{
			RequestsPerTimeFrame: intEnv("RATE_LIMIT_MAX", ratelimiter.DefaultRequestsPerTimeFrame, &errs),
			TimeFrame:            durationEnv("RATE_LIMIT_WINDOW", ratelimiter.DefaultTimeFrame, &errs),
			Enabled:              boolEnv("RATE_LIMIT_ENABLED", true, &errs),
			KeyPrefix:            "global",
		},
		RateLimitStore:     strings.ToLower(strEnv("RATE_LIMIT_STORE", RateLimitStoreMem)),
		CorsAllowedOrigins: listEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		TrustedIpHeaders:   listEnv("TRUSTED_IP_HEADERS", []string{}),
		LogFile:            strEnv("LOG_FILE", "/var/log/movie_proxy/movie_proxy.log"),
		Redis: RedisConfig{
			Addr:       os.Getenv("REDIS_ADDR"),
			Username:   os.Getenv("REDIS_USERNAME"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         intEnv("REDIS_DB", 0, &errs),
			ClientName: EnvName + "_" + strEnv("REDIS_CLIENT_NAME", "movie_proxy"),
		},
	}

	if err := conf.RateLimit.Validate(); err != nil {
		errs = append(errs, err)
	}

	switch conf.RateLimitStore {
	case RateLimitStoreMem:
	case RateLimitStoreRedis:
		if conf.Redis.Addr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when RATE_LIMIT_STORE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported RATE_LIMIT_STORE %q", conf.RateLimitStore))
	}

	if conf.OmdbRequestsPerSecond <= 0 {
		errs = append(errs, errors.New("OMDB_RPS must be > 0"))
	}
	if conf.OmdbTimeout <= 0 {
		errs = append(errs, errors.New("OMDB_TIMEOUT must be > 0"))
	}

	return conf, errors.Join(errs...)
}

func strEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return n
}

func floatEnv(key string, def float64, errs *[]error) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return f
}

func boolEnv(key string, def bool, errs *[]error) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return b
}

// durations accept time.ParseDuration syntax or a plain number of milliseconds
func durationEnv(key string, def time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(n) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return d
}

func listEnv(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return DecodeEnvList(v)
}
