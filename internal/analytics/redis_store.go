package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const allTimeKey = "searches:all"

func dayKey(dayStart time.Time) string {
	return fmt.Sprintf("searches:%d", dayStart.UnixMilli())
}

// RedisCounterStore implements CounterStore on Redis sorted sets, mapping
// query string to cumulative count.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore creates a Redis-backed counter store.
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (s *RedisCounterStore) IncrQueryCount(ctx context.Context, query string, dayStart time.Time) error {
	pipe := s.client.Pipeline()
	pipe.ZIncrBy(ctx, allTimeKey, 1, query)
	pipe.ZIncrBy(ctx, dayKey(dayStart), 1, query)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment search counters: %w", err)
	}
	return nil
}

func (s *RedisCounterStore) TopAllTime(ctx context.Context, n int64) ([]QueryCount, error) {
	return s.top(ctx, allTimeKey, n)
}

func (s *RedisCounterStore) TopForDay(ctx context.Context, dayStart time.Time, n int64) ([]QueryCount, error) {
	return s.top(ctx, dayKey(dayStart), n)
}

func (s *RedisCounterStore) top(ctx context.Context, key string, n int64) ([]QueryCount, error) {
	entries, err := s.client.ZRevRangeWithScores(ctx, key, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read top searches: %w", err)
	}

	out := make([]QueryCount, 0, len(entries))
	for _, e := range entries {
		query, ok := e.Member.(string)
		if !ok {
			continue
		}
		out = append(out, QueryCount{Query: query, Count: e.Score})
	}
	return out, nil
}
