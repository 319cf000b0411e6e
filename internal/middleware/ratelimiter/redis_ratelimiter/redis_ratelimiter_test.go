package redis_ratelimiter

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/middleware/ratelimiter"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/middleware/ratelimiter/mem_ratelimiter"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient talks to REDIS_ADDR when it is set and reachable, otherwise to
// an in-process miniredis. The returned *miniredis.Miniredis is nil for a real
// server.
func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err == nil {
			t.Cleanup(func() { _ = rdb.Close() })
			return rdb, nil
		}
		_ = rdb.Close()
		t.Logf("redis not reachable on %s, falling back to miniredis", addr)
	}

	m := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, m
}

func testKey() string {
	return "test:" + uuid.NewString()
}

func TestRedisStoreMissingKey(t *testing.T) {
	rdb, _ := newTestClient(t)
	s := NewRedisStore(rdb, time.Minute)

	state, found, err := s.Get(context.Background(), testKey())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, state)
}

func TestRedisStoreRoundTripKeepsSubMillisecondStart(t *testing.T) {
	rdb, _ := newTestClient(t)
	s := NewRedisStore(rdb, time.Minute)
	ctx := context.Background()
	key := testKey()

	start := time.Date(2024, 1, 1, 0, 0, 0, 900_123, time.UTC)
	require.NoError(t, s.Set(ctx, key, ratelimiter.WindowState{RequestCount: 4, WindowStart: start}))

	got, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 4, got.RequestCount)
	assert.True(t, start.Equal(got.WindowStart), "want %s, got %s", start, got.WindowStart)
}

func TestRedisStoreSetsTTL(t *testing.T) {
	rdb, _ := newTestClient(t)
	s := NewRedisStore(rdb, time.Minute)
	ctx := context.Background()
	key := testKey()

	require.NoError(t, s.Set(ctx, key, ratelimiter.WindowState{RequestCount: 1, WindowStart: time.Now()}))

	ttl, err := rdb.PTTL(ctx, "fw_rt_"+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestRedisStoreDefaultTTL(t *testing.T) {
	rdb, _ := newTestClient(t)
	s := NewRedisStore(rdb, 0)
	assert.Equal(t, 2*ratelimiter.DefaultTimeFrame, s.ttl)
}

func TestRedisStoreKeyExpires(t *testing.T) {
	rdb, m := newTestClient(t)
	if m == nil {
		t.Skip("needs miniredis to move time forward")
	}
	s := NewRedisStore(rdb, time.Minute)
	ctx := context.Background()
	key := testKey()

	require.NoError(t, s.Set(ctx, key, ratelimiter.WindowState{RequestCount: 3, WindowStart: time.Now()}))
	m.FastForward(time.Minute)

	_, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStorePartialHashIsNotFound(t *testing.T) {
	rdb, _ := newTestClient(t)
	s := NewRedisStore(rdb, time.Minute)
	ctx := context.Background()
	key := testKey()

	require.NoError(t, rdb.HSet(ctx, "fw_rt_"+key, countField, "3").Err())
	t.Cleanup(func() { rdb.Del(context.Background(), "fw_rt_"+key) })

	_, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStoreMalformedState(t *testing.T) {
	rdb, _ := newTestClient(t)
	s := NewRedisStore(rdb, time.Minute)
	ctx := context.Background()

	for name, fields := range map[string][]any{
		"count": {countField, "abc", startField, "1"},
		"start": {countField, "1", startField, "yesterday"},
	} {
		t.Run(name, func(t *testing.T) {
			key := testKey()
			require.NoError(t, rdb.HSet(ctx, "fw_rt_"+key, fields...).Err())
			t.Cleanup(func() { rdb.Del(context.Background(), "fw_rt_"+key) })

			_, _, err := s.Get(ctx, key)
			assert.ErrorIs(t, err, ErrMalformedState)
		})
	}
}

func TestRedisStoreErrorsRejectTheRequest(t *testing.T) {
	rdb, m := newTestClient(t)
	if m == nil {
		t.Skip("needs miniredis to take the server down")
	}
	l, err := ratelimiter.NewFixedWindowLimiter(NewRedisStore(rdb, time.Minute), ratelimiter.DefaultConfig())
	require.NoError(t, err)

	m.Close()
	assert.True(t, l.Check(context.Background(), "1.2.3.4", time.Now()))
}

// A start saved in coarser units would end the window up to one unit early.
func TestRedisStoreWindowDoesNotEndEarly(t *testing.T) {
	rdb, _ := newTestClient(t)
	conf := ratelimiter.Config{RequestsPerTimeFrame: 1, TimeFrame: time.Minute, Enabled: true, KeyPrefix: "test_" + uuid.NewString()}
	l, err := ratelimiter.NewFixedWindowLimiter(NewRedisStore(rdb, 2*conf.TimeFrame), conf)
	require.NoError(t, err)
	ctx := context.Background()

	first := time.Date(2024, 1, 1, 0, 0, 0, 900_000, time.UTC)
	require.False(t, l.Check(ctx, "k", first))
	assert.True(t, l.Check(ctx, "k", first.Add(time.Minute-500*time.Microsecond)))
	assert.False(t, l.Check(ctx, "k", first.Add(time.Minute)))
}

func TestFixedWindowPropertiesOnEveryStore(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(ms int64) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

	stores := map[string]func(t *testing.T) ratelimiter.Store{
		"mem": func(t *testing.T) ratelimiter.Store { return mem_ratelimiter.NewMemStore() },
		"redis": func(t *testing.T) ratelimiter.Store {
			rdb, _ := newTestClient(t)
			return NewRedisStore(rdb, 2*ratelimiter.DefaultTimeFrame)
		},
	}

	properties := []struct {
		name string
		run  func(t *testing.T, l ratelimiter.Limiter)
	}{
		{"admit under limit", func(t *testing.T, l ratelimiter.Limiter) {
			for i := range 10 {
				assert.False(t, l.Check(context.Background(), "a", at(int64(i))), "request #%d", i+1)
			}
		}},
		{"reject over limit", func(t *testing.T, l ratelimiter.Limiter) {
			for range 10 {
				require.False(t, l.Check(context.Background(), "a", at(0)))
			}
			assert.True(t, l.Check(context.Background(), "a", at(1)))
			assert.True(t, l.Check(context.Background(), "a", at(59_999)))
		}},
		{"window reset", func(t *testing.T, l ratelimiter.Limiter) {
			for range 10 {
				require.False(t, l.Check(context.Background(), "a", at(0)))
			}
			require.True(t, l.Check(context.Background(), "a", at(1)))
			assert.False(t, l.Check(context.Background(), "a", at(60_001)))
			for range 9 {
				require.False(t, l.Check(context.Background(), "a", at(60_002)))
			}
			assert.True(t, l.Check(context.Background(), "a", at(60_003)), "count must restart at 1")
		}},
		{"per key isolation", func(t *testing.T, l ratelimiter.Limiter) {
			for range 10 {
				require.False(t, l.Check(context.Background(), "a", at(0)))
			}
			require.True(t, l.Check(context.Background(), "a", at(1)))
			for range 10 {
				assert.False(t, l.Check(context.Background(), "b", at(1)))
			}
		}},
		{"boundary", func(t *testing.T, l ratelimiter.Limiter) {
			for range 10 {
				require.False(t, l.Check(context.Background(), "a", at(0)))
			}
			require.True(t, l.Check(context.Background(), "a", at(59_999)))
			assert.False(t, l.Check(context.Background(), "a", at(60_000)))
		}},
	}

	for storeName, newStore := range stores {
		for _, p := range properties {
			t.Run(storeName+"/"+p.name, func(t *testing.T) {
				conf := ratelimiter.DefaultConfig()
				conf.KeyPrefix = "test_" + uuid.NewString()
				l, err := ratelimiter.NewFixedWindowLimiter(newStore(t), conf)
				require.NoError(t, err)
				p.run(t, l)
			})
		}
	}
}

func TestParseInt(t *testing.T) {
	n, err := parseInt("42")
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)

	n, err = parseInt(int64(7))
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)

	_, err = parseInt(3.5)
	assert.Error(t, err)
}
