package cache

import (
	"context"
	"time"

	"github.com/forumkit/forum-search-service/internal/domain"
)

// ResultCache caches search results keyed by canonical input.
type ResultCache interface {
	BuildKey(input *domain.SearchInput) string
	Get(ctx context.Context, key string) (*domain.SearchResult, error)
	Set(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) error
	Close() error
}
