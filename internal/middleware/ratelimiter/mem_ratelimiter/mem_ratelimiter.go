package mem_ratelimiter

import (
	"context"
	"sync"
	"time"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/middleware/ratelimiter"
	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
)

const defaultShardCount = 32

type Option func(*MemStore)

// WithIdleTTL sets how long after its window started an entry can be evicted.
// It should never be less than the limiter TimeFrame, otherwise an evicted key
// gets a fresh budget before its window is over.
func WithIdleTTL(d time.Duration) Option {
	return func(s *MemStore) { s.idleTTL = d }
}

func WithShardCount(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *MemStore) { s.now = now }
}

// MemStore is an in process ratelimiter.Store. Keys are spread over shards so
// unrelated keys do not wait on each other.
type MemStore struct {
	shards     []*shard
	shardCount int
	idleTTL    time.Duration
	now        func() time.Time
}

type shard struct {
	mu      sync.Mutex
	entries map[string]ratelimiter.WindowState
}

func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		shardCount: defaultShardCount,
		idleTTL:    ratelimiter.DefaultTimeFrame,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{entries: map[string]ratelimiter.WindowState{}}
	}
	return s
}

func (s *MemStore) shardFor(key string) *shard {
	return s.shards[xxhash.Sum64String(key)%uint64(len(s.shards))]
}

func (s *MemStore) Get(ctx context.Context, key string) (ratelimiter.WindowState, bool, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	state, ok := sh.entries[key]
	sh.mu.Unlock()
	return state, ok, nil
}

func (s *MemStore) Set(ctx context.Context, key string, state ratelimiter.WindowState) error {
	sh := s.shardFor(key)
	sh.mu.Lock()
	sh.entries[key] = state
	sh.mu.Unlock()
	return nil
}

// Len returns the number of tracked keys.
func (s *MemStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.entries)
		sh.mu.Unlock()
	}
	return n
}

// Vacuum removes the entries whose window started idleTTL or more before now.
// It returns how many entries were removed.
func (s *MemStore) Vacuum(now time.Time) int {
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for k, v := range sh.entries {
			if now.Sub(v.WindowStart) >= s.idleTTL {
				delete(sh.entries, k)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// StartVacuumProc runs Vacuum every `every` until ctx is done.
func (s *MemStore) StartVacuumProc(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	log := zerolog.Ctx(ctx)

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if removed := s.Vacuum(s.now()); removed != 0 {
					log.Debug().Int("removed", removed).Int("remaining", s.Len()).Msg("rate limiter vacuum")
				}
			}
		}
	}()
}
