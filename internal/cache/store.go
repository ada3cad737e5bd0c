package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"naads/internal/infrastructure"
	"naads/pkg/contracts/domain"
)

// Loader produces prepared data on a cache miss
type Loader func(ctx context.Context) (*domain.PreparedData, error)

// Stats is a snapshot of cache activity
type Stats struct {
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	Loads         uint64 `json:"loads"`
	Invalidations uint64 `json:"invalidations"`
	Entries       int    `json:"entries"`
	MaxEntries    int    `json:"max_entries"`
}

// Store memoizes prepared data by source fingerprint. Cached values are
// shared between callers and must be treated as read-only.
type Store struct {
	entries    *lru.Cache[string, *domain.PreparedData]
	group      singleflight.Group
	maxEntries int
	generation atomic.Uint64

	hits          atomic.Uint64
	misses        atomic.Uint64
	loads         atomic.Uint64
	invalidations atomic.Uint64

	logger  *slog.Logger
	metrics *infrastructure.DashboardMetrics
}

// New creates a store holding at most maxEntries results. metrics may be nil.
func New(maxEntries int, logger *slog.Logger, metrics *infrastructure.DashboardMetrics) (*Store, error) {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := lru.New[string, *domain.PreparedData](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("cache: creating LRU: %w", err)
	}

	return &Store{
		entries:    entries,
		maxEntries: maxEntries,
		logger:     infrastructure.WithComponent(logger, "cache"),
		metrics:    metrics,
	}, nil
}

// Get returns the value cached under key, calling load on a miss. Concurrent
// misses for the same key share one load, which runs detached from the
// caller's cancellation; a canceled caller stops waiting but the load goes on
// for the others. Failed loads are not cached.
func (s *Store) Get(ctx context.Context, key string, load Loader) (*domain.PreparedData, bool, error) {
	if data, ok := s.entries.Get(key); ok {
		s.hits.Add(1)
		s.metrics.RecordCacheLookup(ctx, true)
		return data, true, nil
	}

	s.misses.Add(1)
	s.metrics.RecordCacheLookup(ctx, false)

	gen := s.generation.Load()
	flightKey := strconv.FormatUint(gen, 10) + ":" + key

	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(flightKey, func() (interface{}, error) {
		s.loads.Add(1)
		s.logger.InfoContext(loadCtx, "Preparing dashboard data", slog.String("fingerprint", shortKey(key)))

		data, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if data == nil {
			return nil, errors.New("cache: loader returned no data")
		}
		data.Fingerprint = key

		// Results started before an invalidation are returned but not kept.
		if s.generation.Load() == gen {
			s.entries.Add(key, data)
		}
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*domain.PreparedData), false, nil
	}
}

// Invalidate drops every cached result
func (s *Store) Invalidate(ctx context.Context, reason string) {
	s.generation.Add(1)
	s.invalidations.Add(1)
	dropped := s.entries.Len()
	s.entries.Purge()

	s.metrics.RecordCacheInvalidation(ctx, reason)
	s.logger.InfoContext(ctx, "Cache invalidated",
		slog.String("reason", reason),
		slog.Int("dropped", dropped))
}

// Stats returns current counters
func (s *Store) Stats() Stats {
	return Stats{
		Hits:          s.hits.Load(),
		Misses:        s.misses.Load(),
		Loads:         s.loads.Load(),
		Invalidations: s.invalidations.Load(),
		Entries:       s.entries.Len(),
		MaxEntries:    s.maxEntries,
	}
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
