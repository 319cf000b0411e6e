package redis_ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/middleware/ratelimiter"
	"github.com/redis/go-redis/v9"
)

const (
	countField = "count"
	startField = "start"
)

var ErrMalformedState = errors.New("redis_ratelimiter: malformed window state")

// RedisStore keeps every window state as a redis hash that expires after ttl,
// so idle keys are reclaimed by redis itself. The window start is stored in
// unix nanoseconds and must round-trip exactly.
//
// Only checks going through the same limiter are serialized. Two processes
// sharing one redis can both read the same count before any of them writes.
type RedisStore struct {
	rdb       redis.Cmdable
	ttl       time.Duration
	keyPrefix string
}

// NewRedisStore with ttl <= 0 falls back to 2x the default time frame.
func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 2 * ratelimiter.DefaultTimeFrame
	}
	return &RedisStore{
		rdb:       rdb,
		ttl:       ttl,
		keyPrefix: "fw_rt_",
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (ratelimiter.WindowState, bool, error) {
	vals, err := s.rdb.HMGet(ctx, s.keyPrefix+key, countField, startField).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ratelimiter.WindowState{}, false, nil
		}
		return ratelimiter.WindowState{}, false, err
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return ratelimiter.WindowState{}, false, nil
	}

	count, err := parseInt(vals[0])
	if err != nil {
		return ratelimiter.WindowState{}, false, fmt.Errorf("%w: count: %w", ErrMalformedState, err)
	}
	startNs, err := parseInt(vals[1])
	if err != nil {
		return ratelimiter.WindowState{}, false, fmt.Errorf("%w: start: %w", ErrMalformedState, err)
	}

	return ratelimiter.WindowState{
		RequestCount: int(count),
		WindowStart:  time.Unix(0, startNs),
	}, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, state ratelimiter.WindowState) error {
	redisKey := s.keyPrefix + key
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisKey, countField, state.RequestCount, startField, state.WindowStart.UnixNano())
		pipe.PExpire(ctx, redisKey, s.ttl)
		return nil
	})
	return err
}

func parseInt(v any) (int64, error) {
	switch x := v.(type) {
	case string:
		return strconv.ParseInt(x, 10, 64)
	case int64:
		return x, nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
