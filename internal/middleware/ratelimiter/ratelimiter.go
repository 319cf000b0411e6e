package ratelimiter

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultRequestsPerTimeFrame = 10
	DefaultTimeFrame            = time.Minute
)

var (
	ErrInvalidRequestsPerTimeFrame = errors.New("ratelimiter: RequestsPerTimeFrame must be >= 1")
	ErrInvalidTimeFrame            = errors.New("ratelimiter: TimeFrame must be > 0")
	ErrNilStore                    = errors.New("ratelimiter: nil store")
)

// Limiter decides, for each (key, now) pair, whether the request is admitted.
//
// Check returns true when the request is rate limited and the caller must not
// proceed with the guarded operation.
type Limiter interface {
	Check(ctx context.Context, key string, now time.Time) bool
	Config() Config
}

type Config struct {
	// max admitted requests per key per TimeFrame
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
	KeyPrefix            string
}

func DefaultConfig() Config {
	return Config{
		RequestsPerTimeFrame: DefaultRequestsPerTimeFrame,
		TimeFrame:            DefaultTimeFrame,
		Enabled:              true,
		KeyPrefix:            "global",
	}
}

func (c Config) Validate() error {
	if c.RequestsPerTimeFrame < 1 {
		return ErrInvalidRequestsPerTimeFrame
	}
	if c.TimeFrame <= 0 {
		return ErrInvalidTimeFrame
	}
	return nil
}

// WindowState is the per key state of a fixed window counter.
type WindowState struct {
	RequestCount int
	WindowStart  time.Time
}

// Store holds the WindowState of every key.
//
// Implementations must be safe for concurrent use. Get followed by Set is NOT
// atomic on its own, the limiter serializes them per key.
type Store interface {
	Get(ctx context.Context, key string) (state WindowState, found bool, err error)
	Set(ctx context.Context, key string, state WindowState) error
}
