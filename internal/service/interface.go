package service

import (
	"context"
	"net/url"

	"github.com/forumkit/forum-search-service/internal/analytics"
	"github.com/forumkit/forum-search-service/internal/domain"
)

// PermissionRequest is the value permission hooks transform. The built-in
// policy sets Allowed; each hook may overwrite it, and the final value is
// authoritative.
type PermissionRequest struct {
	UID     int64
	Query   string
	Scope   domain.Scope
	Allowed bool
}

// PermissionHook is one link of the permission override chain. Hooks run
// in registration order.
type PermissionHook func(ctx context.Context, req *PermissionRequest) error

// SearchService defines the search page business logic.
type SearchService interface {
	// ProviderRegistered reports whether a search engine is wired in.
	// When it is not, the search route is simply not applicable.
	ProviderRegistered() bool

	// Normalize coerces raw query parameters into a canonical SearchInput.
	Normalize(raw url.Values, uid int64) *domain.SearchInput

	// Authorize decides whether the caller may search the requested
	// scope. The boolean outcome is a normal result, not an error.
	Authorize(ctx context.Context, input *domain.SearchInput) (bool, *domain.Privileges, error)

	// RegisterPermissionHook appends a hook to the override chain.
	RegisterPermissionHook(hook PermissionHook)

	// Search runs the query against the engine and records it for
	// analytics. Only the engine result is awaited.
	Search(ctx context.Context, input *domain.SearchInput) (*domain.SearchResult, error)

	// BuildPayload assembles the JSON-mode response body.
	BuildPayload(input *domain.SearchInput, result *domain.SearchResult) domain.SearchPayload

	// BuildPage assembles the full page view-model.
	BuildPage(ctx context.Context, input *domain.SearchInput, result *domain.SearchResult, privs *domain.Privileges) (*domain.SearchPageData, error)

	// TopSearches returns the most frequent queries, all-time or for the
	// current day.
	TopSearches(ctx context.Context, period string, n int64) ([]analytics.QueryCount, error)
}
