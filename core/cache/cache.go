package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultLoadTimeout bounds a shared load when no timeout is configured.
const DefaultLoadTimeout = time.Minute

// Cache stores loader results in a Backend for a fixed TTL.
// Concurrent misses for the same key share one load.
type Cache struct {
	backend     Backend
	prefix      string
	ttl         time.Duration
	loadTimeout time.Duration
	logger      *zap.Logger
	sf          singleflight.Group
}

// New wraps a backend. A zero ttl disables caching.
func New(backend Backend, prefix string, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		backend:     backend,
		prefix:      prefix,
		ttl:         ttl,
		loadTimeout: DefaultLoadTimeout,
		logger:      logger,
	}
}

// Open builds the backend selected by cfg.
func Open(cfg Config, logger *zap.Logger) (*Cache, error) {
	var backend Backend
	switch cfg.Driver {
	case "", DriverMemory:
		backend = NewMemory()
	case DriverRedis:
		r, err := NewRedis(cfg)
		if err != nil {
			return nil, err
		}
		backend = r
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
	c := New(backend, cfg.Prefix, cfg.TTL, logger)
	if cfg.LoadTimeout > 0 {
		c.loadTimeout = cfg.LoadTimeout
	}
	return c, nil
}

// Close releases the backend's connections, if it holds any.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	if closer, ok := c.backend.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Enabled reports whether results are cached at all.
func (c *Cache) Enabled() bool {
	return c != nil && c.ttl > 0
}

// Purge drops every entry in the given namespace.
func (c *Cache) Purge(ctx context.Context, namespace string) error {
	if !c.Enabled() {
		return nil
	}
	return c.backend.Purge(ctx, c.prefix+namespace)
}

// GetOrLoad returns the cached value for key, or calls load and caches its result.
// Backend failures are logged and never hide a successful load.
// fresh is true when the value came from load rather than the cache.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (value T, fresh bool, err error) {
	if !c.Enabled() {
		value, err = load(ctx)
		return value, err == nil, err
	}

	fullKey := c.prefix + key

	// Fast path
	if v, ok := c.lookup(ctx, fullKey); ok {
		var cached T
		if err := json.Unmarshal(v, &cached); err == nil {
			return cached, false, nil
		}
		c.logger.Warn("Discarding undecodable cache entry", zap.String("key", fullKey))
	}

	// Slow path: one loader per key. The load is detached from the first
	// caller so its cancellation does not fail the other waiters.
	ch := c.sf.DoChan(fullKey, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		loaded, err := load(loadCtx)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(loaded)
		if err != nil {
			c.logger.Warn("Failed to encode cache entry", zap.String("key", fullKey), zap.Error(err))
			return loaded, nil
		}
		if err := c.backend.Set(loadCtx, fullKey, data, c.ttl); err != nil {
			c.logger.Warn("Failed to write cache entry", zap.String("key", fullKey), zap.Error(err))
		}
		return loaded, nil
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, false, res.Err
		}
		return res.Val.(T), true, nil
	}
}

func (c *Cache) lookup(ctx context.Context, key string) ([]byte, bool) {
	v, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return v, ok
}
