package cache

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"catalog-api/internal/metrics"

	"github.com/rs/zerolog"
)

// ResponseCache is the read-through cache in front of the repositories.
//
// Keys are the exact request URI (path plus raw query), without
// normalization. The generation is an atomic counter and no lock is held
// across store calls. Every physical key is prefixed with the generation current
// at the time of the read that produced the body; InvalidateAll bumps the
// generation, so entries written before it become unreachable even if the
// backend fails to clear them, and a populate that was overtaken by an
// invalidation is dropped instead of resurrecting pre-mutation data.
type ResponseCache struct {
	store  Store
	ttl    time.Duration
	logger zerolog.Logger
	gen    atomic.Uint64
}

// NewResponseCache wraps store with a fixed TTL applied to every entry.
func NewResponseCache(store Store, ttl time.Duration, logger zerolog.Logger) *ResponseCache {
	return &ResponseCache{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// TTL returns the lifetime of every entry.
func (c *ResponseCache) TTL() time.Duration {
	return c.ttl
}

// SnapshotGen returns the current invalidation generation. Take it before
// reading from the repository and pass it to SetWithGen afterwards.
func (c *ResponseCache) SnapshotGen() uint64 {
	return c.gen.Load()
}

// Get returns the cached body for key. Backend errors are logged and reported
// as a miss.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	entry, ok, err := c.store.Get(ctx, physicalKey(c.gen.Load(), key))
	if err != nil {
		metrics.CacheErrors.WithLabelValues("get").Inc()
		c.logger.Warn().Err(err).Str("key", key).Msg("cache get failed, treating as miss")
		return nil, false
	}
	if !ok {
		metrics.CacheMisses.Inc()
		c.logger.Debug().Str("key", key).Msg("cache miss")
		return nil, false
	}
	metrics.CacheHits.Inc()
	c.logger.Debug().Str("key", key).Time("inserted_at", entry.InsertedAt).Msg("cache hit")
	return entry.Value, true
}

// SetWithGen stores body under key if no invalidation happened since obs was
// taken. It reports whether the body was stored.
func (c *ResponseCache) SetWithGen(ctx context.Context, key string, body []byte, obs uint64) bool {
	if c.gen.Load() != obs {
		metrics.CacheStalePopulates.Inc()
		c.logger.Debug().Str("key", key).Uint64("observed_gen", obs).Msg("dropping stale cache populate")
		return false
	}
	if err := c.store.Set(ctx, physicalKey(obs, key), body, c.ttl); err != nil {
		metrics.CacheErrors.WithLabelValues("set").Inc()
		c.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
		return false
	}
	return true
}

// Set stores body under key at the current generation.
func (c *ResponseCache) Set(ctx context.Context, key string, body []byte) bool {
	return c.SetWithGen(ctx, key, body, c.SnapshotGen())
}

// InvalidateAll makes every existing entry unreachable and clears the backend.
// It returns the new generation. The error only concerns reclaiming space:
// stale entries are never served once the generation has moved.
func (c *ResponseCache) InvalidateAll(ctx context.Context, resource string) (uint64, error) {
	gen := c.gen.Add(1)
	metrics.CacheInvalidations.WithLabelValues(resource).Inc()
	if err := c.store.Clear(ctx); err != nil {
		metrics.CacheErrors.WithLabelValues("clear").Inc()
		c.logger.Warn().Err(err).Uint64("generation", gen).Msg("cache clear failed")
		return gen, err
	}
	c.logger.Info().Str("resource", resource).Uint64("generation", gen).Msg("cache invalidated")
	return gen, nil
}

// Len returns the number of live entries in the backend.
func (c *ResponseCache) Len(ctx context.Context) (int, error) {
	return c.store.Len(ctx)
}

func physicalKey(gen uint64, key string) string {
	var b strings.Builder
	b.Grow(len(key) + 21)
	b.WriteString(strconv.FormatUint(gen, 10))
	b.WriteByte('|')
	b.WriteString(key)
	return b.String()
}
