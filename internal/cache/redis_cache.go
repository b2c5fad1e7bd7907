package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/forumkit/forum-search-service/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

type RedisResultCache struct {
	client *redis.Client
	prefix string
}

// NewRedisResultCache creates a Redis-backed search result cache.
func NewRedisResultCache(client *redis.Client, prefix string) *RedisResultCache {
	return &RedisResultCache{
		client: client,
		prefix: prefix,
	}
}

// BuildKey derives a cache key from the canonical search input. The uid is
// part of the key because watched-category and bookmark searches are
// caller-specific.
func (c *RedisResultCache) BuildKey(input *domain.SearchInput) string {
	data, err := json.Marshal(input)
	if err != nil {
		return fmt.Sprintf("%s:%s:%s:%d", c.prefix, input.Scope, input.Query, input.UID)
	}
	sum := sha1.Sum(data)
	return fmt.Sprintf("%s:%s", c.prefix, hex.EncodeToString(sum[:]))
}

func (c *RedisResultCache) Get(ctx context.Context, key string) (*domain.SearchResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var result domain.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return &result, nil
}

func (c *RedisResultCache) Set(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}

	return nil
}

func (c *RedisResultCache) Close() error {
	return c.client.Close()
}
