package pubhouse

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eringen/pubhouse/content"
)

const publishedCacheKey = "pubhouse:posts:published"

// PostLoader fetches the published post listing from the source of truth.
type PostLoader func(ctx context.Context) ([]content.Post, error)

// PostCache is an in-memory cache of the published post listing with TTL.
// When a Redis client is set it is used as a shared second level, so that
// several processes agree on the listing between invalidations.
type PostCache struct {
	mu      sync.RWMutex
	posts   []content.Post
	fetched time.Time
	ttl     time.Duration
	load    PostLoader
	redis   *redis.Client
	logger  *slog.Logger
}

// NewPostCache creates a PostCache that fills itself through load.
// rdb may be nil.
func NewPostCache(load PostLoader, ttl time.Duration, rdb *redis.Client, logger *slog.Logger) *PostCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostCache{load: load, ttl: ttl, redis: rdb, logger: logger}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears both cache levels so the next read triggers a fresh load.
func (c *PostCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
	if c.redis != nil {
		if err := c.redis.Del(ctx, publishedCacheKey).Err(); err != nil {
			c.logger.WarnContext(ctx, "redis invalidate failed", "error", err)
		}
	}
}

// Published returns the published posts newest first. It tries a read
// lock first; only takes a write lock if a reload is needed.
func (c *PostCache) Published(ctx context.Context) ([]content.Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.fill(ctx)
	if err != nil {
		return nil, err
	}
	c.posts = posts
	c.fetched = time.Now()
	return posts, nil
}

func (c *PostCache) fill(ctx context.Context) ([]content.Post, error) {
	if posts, ok := c.getShared(ctx); ok {
		return posts, nil
	}
	posts, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []content.Post{}
	}
	c.setShared(ctx, posts)
	return posts, nil
}

func (c *PostCache) getShared(ctx context.Context) ([]content.Post, bool) {
	if c.redis == nil {
		return nil, false
	}
	b, err := c.redis.Get(ctx, publishedCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.WarnContext(ctx, "redis get failed", "error", err)
		return nil, false
	}
	var posts []content.Post
	if err := json.Unmarshal(b, &posts); err != nil {
		c.logger.WarnContext(ctx, "redis payload invalid", "error", err)
		return nil, false
	}
	if posts == nil {
		posts = []content.Post{}
	}
	return posts, true
}

func (c *PostCache) setShared(ctx context.Context, posts []content.Post) {
	if c.redis == nil {
		return
	}
	b, err := json.Marshal(posts)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, publishedCacheKey, b, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "redis set failed", "error", err)
	}
}
