package repository

import (
	"context"

	"github.com/forumkit/forum-search-service/internal/domain"
)

// SearchEngine is the external full-text search collaborator. Ranking,
// tokenization and indexing live behind this interface.
type SearchEngine interface {
	Search(ctx context.Context, q *domain.EngineQuery) (*domain.SearchResult, error)
}

// CategoryRepository reads the forum category tree.
type CategoryRepository interface {
	// ChildIDs expands the given category ids with all their descendants.
	ChildIDs(ctx context.Context, ids []int64) ([]int64, error)
	// WatchedIDs returns the category ids the user watches.
	WatchedIDs(ctx context.Context, uid int64) ([]int64, error)
	// NamesByIDs returns category names keyed by id.
	NamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
	// Search matches categories by name for the categories scope.
	Search(ctx context.Context, query string, offset, limit int) ([]domain.CategoryResult, int, error)
}

// UserRepository reads forum user records.
type UserRepository interface {
	UIDsByUsernames(ctx context.Context, usernames []string) ([]int64, error)
	ByUsernames(ctx context.Context, usernames []string) ([]domain.UserResult, error)
}

// TagRepository reads forum tag records.
type TagRepository interface {
	ByValues(ctx context.Context, values []string) ([]domain.TagResult, error)
}

// PrivilegeRepository answers capability questions for a user, anonymous
// callers (uid 0) included.
type PrivilegeRepository interface {
	Can(ctx context.Context, uid int64, privilege string) (bool, error)
}

// Privilege names used by the search page.
const (
	PrivSearchUsers   = "search:users"
	PrivSearchContent = "search:content"
	PrivSearchTags    = "search:tags"
)
