package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	dom "Weblog/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyFeed   = "post:feed"
	keySearch = "post:search:"
)

// PostCache caches the home feed and search results in Redis.
type PostCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPostCache returns a new PostCache.
func NewPostCache(rdb *redis.Client, ttl time.Duration) *PostCache {
	return &PostCache{rdb: rdb, ttl: ttl}
}

// GetFeed returns the cached feed or nil on miss.
func (c *PostCache) GetFeed(ctx context.Context) ([]dom.Post, error) {
	return c.get(ctx, keyFeed)
}

// SetFeed stores the feed in cache.
func (c *PostCache) SetFeed(ctx context.Context, list []dom.Post) error {
	return c.set(ctx, keyFeed, list)
}

// GetSearch returns the cached result for query q, or nil on miss.
func (c *PostCache) GetSearch(ctx context.Context, q string) ([]dom.Post, error) {
	return c.get(ctx, keySearch+normalizeQuery(q))
}

// SetSearch stores the search result in cache.
func (c *PostCache) SetSearch(ctx context.Context, q string, list []dom.Post) error {
	return c.set(ctx, keySearch+normalizeQuery(q), list)
}

// InvalidateAll removes the feed and all search keys (invalidation on write).
func (c *PostCache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Del(ctx, keyFeed).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, keySearch+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *PostCache) get(ctx context.Context, key string) ([]dom.Post, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Post
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *PostCache) set(ctx context.Context, key string, list []dom.Post) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func normalizeQuery(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
