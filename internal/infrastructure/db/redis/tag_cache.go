package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/realworld/conduit-api/internal/api/metrics"
)

const (
	tagsKey        = "tags:all"
	defaultTagsTTL = 5 * time.Minute
)

// TagCache stores the ordered tag name list under a single key.
type TagCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTagCache wraps client; a non-positive ttl falls back to five minutes.
func NewTagCache(client *redis.Client, ttl time.Duration) *TagCache {
	if ttl <= 0 {
		ttl = defaultTagsTTL
	}
	return &TagCache{client: client, ttl: ttl}
}

// Get reports ok=false on a cache miss.
func (c *TagCache) Get(ctx context.Context) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, tagsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.TagCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.TagCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("tag cache get: %w", err)
	}

	names, err := decodeNames(raw)
	if err != nil {
		metrics.TagCacheTotal.WithLabelValues("error").Inc()
		return nil, false, err
	}
	metrics.TagCacheTotal.WithLabelValues("hit").Inc()
	return names, true, nil
}

func (c *TagCache) Set(ctx context.Context, names []string) error {
	raw, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("tag cache encode: %w", err)
	}
	if err := c.client.Set(ctx, tagsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("tag cache set: %w", err)
	}
	return nil
}

func decodeNames(raw []byte) ([]string, error) {
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("tag cache decode: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
