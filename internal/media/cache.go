package media

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"performance-prime/internal/common/logger"
)

// Loader resolves an exercise media key to a playable URL. Implemented
// by the CDN resolver in production and by fakes in tests.
type Loader func(ctx context.Context, key string) (string, error)

// Cache resolves exercise clip URLs through Redis with an in-process
// single flight layer, so a burst of requests for the same clip hits
// the loader once.
type Cache struct {
	client *redis.Client
	loader Loader
	ttl    time.Duration
	logger logger.Logger

	mu       sync.Mutex
	inFlight map[string]*call
}

type call struct {
	done chan struct{}
	url  string
	err  error
}

func NewCache(client *redis.Client, loader Loader, ttl time.Duration, log logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		client:   client,
		loader:   loader,
		ttl:      ttl,
		logger:   log.WithFields(map[string]interface{}{"component": "media_cache"}),
		inFlight: make(map[string]*call),
	}
}

func cacheKey(key string) string {
	return "media:url:" + key
}

// ResolveURL returns the URL for a media key. Order: Redis, then the
// loader, deduplicating concurrent loads per key. Redis errors degrade
// to a direct load.
func (c *Cache) ResolveURL(ctx context.Context, key string) (string, error) {
	if cached, err := c.client.Get(ctx, cacheKey(key)).Result(); err == nil {
		return cached, nil
	} else if err != redis.Nil {
		c.logger.WithError(err).Warn("media cache read failed", map[string]interface{}{
			"key": key,
		})
	}

	c.mu.Lock()
	if existing, ok := c.inFlight[key]; ok {
		c.mu.Unlock()
		select {
		case <-existing.done:
			return existing.url, existing.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	fresh := &call{done: make(chan struct{})}
	c.inFlight[key] = fresh
	c.mu.Unlock()

	fresh.url, fresh.err = c.loader(ctx, key)
	close(fresh.done)

	c.mu.Lock()
	delete(c.inFlight, key)
	c.mu.Unlock()

	if fresh.err != nil {
		return "", fresh.err
	}

	if err := c.client.Set(ctx, cacheKey(key), fresh.url, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("media cache write failed", map[string]interface{}{
			"key": key,
		})
	}
	return fresh.url, nil
}

// Invalidate drops a cached URL.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, cacheKey(key)).Err()
}
