package ratelimiter

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
)

const keyLockStripes = 256

// NewFixedWindowLimiter returns a fixed window counter on top of store.
//
// A burst of RequestsPerTimeFrame at the end of one window followed by another
// burst at the start of the next one is admitted, so up to 2x the nominal rate
// can pass around a window boundary.
func NewFixedWindowLimiter(store Store, conf Config) (Limiter, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &fixedWindow{
		conf:  conf,
		store: store,
	}, nil
}

type fixedWindow struct {
	conf  Config
	store Store
	locks [keyLockStripes]sync.Mutex
}

func (l *fixedWindow) Config() Config {
	return l.conf
}

func (l *fixedWindow) Check(ctx context.Context, key string, now time.Time) bool {
	if !l.conf.Enabled {
		return false
	}
	key = l.conf.KeyPrefix + ":" + key

	// the read and the write of one key must not interleave with another check
	// of the same key. different keys hash to different stripes most of the time.
	mu := &l.locks[xxhash.Sum64String(key)%keyLockStripes]
	mu.Lock()
	defer mu.Unlock()

	log := zerolog.Ctx(ctx).With().Str("key", key).Logger()

	state, found, err := l.store.Get(ctx, key)
	if err != nil {
		log.Err(err).Msg("Can't rate limit, got an error from the store while reading the window. Rejecting the request")
		return true
	}

	next, limited := advanceWindow(state, found, now, l.conf)
	if limited {
		return true
	}

	if err := l.store.Set(ctx, key, next); err != nil {
		log.Err(err).Msg("Can't rate limit, got an error from the store while writing the window. Rejecting the request")
		return true
	}
	return false
}

// advanceWindow applies one request at now to state.
func advanceWindow(state WindowState, found bool, now time.Time, conf Config) (WindowState, bool) {
	if !found {
		return WindowState{RequestCount: 1, WindowStart: now}, false
	}

	if now.Sub(state.WindowStart) < conf.TimeFrame {
		if state.RequestCount >= conf.RequestsPerTimeFrame {
			return state, true
		}
		state.RequestCount++
		return state, false
	}

	// window elapsed, start a new one
	return WindowState{RequestCount: 1, WindowStart: now}, false
}
