// Package chartcache keeps rendered chart PNGs keyed by dataset version,
// match, sigma and resolution.
package chartcache

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/tensorplex-labs/momentum/internal/config"
	"github.com/tensorplex-labs/momentum/internal/utils/redis"
)

// Backend stores opaque values with a TTL. *redis.Redis satisfies it.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type Cache struct {
	backend Backend
	ttl     time.Duration
	group   singleflight.Group
}

// Key embeds the dataset version so a reload never serves stale charts.
func Key(version uint64, matchID int64, sigma, dpi int) string {
	return fmt.Sprintf("chart:%d:%d:%d:%d", version, matchID, sigma, dpi)
}

func New(backend Backend, ttl time.Duration) *Cache {
	return &Cache{backend: backend, ttl: ttl}
}

// NewFromConfig uses Redis when enabled and reachable, otherwise memory.
func NewFromConfig(ctx context.Context, cacheCfg config.CacheEnvConfig, redisCfg config.RedisEnvConfig) (*Cache, error) {
	if !redisCfg.RedisEnabled {
		log.Info().Int("max_entries", cacheCfg.CacheMaxEntries).Dur("ttl", cacheCfg.CacheTTL).Msg("using in-memory chart cache")
		return New(NewMemory(cacheCfg.CacheMaxEntries), cacheCfg.CacheTTL), nil
	}

	r, err := redis.NewRedis(&redisCfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect redis")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		r.Close()
		return nil, errors.Wrap(err, "ping redis")
	}

	log.Info().Str("host", redisCfg.RedisHost).Int("port", redisCfg.RedisPort).Dur("ttl", cacheCfg.CacheTTL).Msg("using redis chart cache")
	return New(r, cacheCfg.CacheTTL), nil
}

// GetOrRender returns the cached value for key or renders, stores and returns
// it. Concurrent misses on one key share a single render. Backend failures
// are logged and fall through to rendering.
func (c *Cache) GetOrRender(ctx context.Context, key string, render func() ([]byte, error)) ([]byte, bool, error) {
	if value, ok := c.get(ctx, key); ok {
		return value, true, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		if value, ok := c.get(ctx, key); ok {
			return value, nil
		}

		value, err := render()
		if err != nil {
			return nil, err
		}

		if err := c.backend.Set(ctx, key, value, c.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to store chart in cache")
		}
		return value, nil
	})
	if err != nil {
		return nil, false, err
	}

	value, ok := v.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("unexpected cache value type %T", v)
	}
	log.Trace().Str("key", key).Bool("shared", shared).Int("bytes", len(value)).Msg("chart rendered for cache miss")
	return value, false, nil
}

func (c *Cache) get(ctx context.Context, key string) ([]byte, bool) {
	value, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("chart cache lookup failed")
		return nil, false
	}
	return value, ok
}

// Close releases the backend connection, if any.
func (c *Cache) Close() {
	if closer, ok := c.backend.(interface{ Close() }); ok {
		closer.Close()
	}
}
