package domain

import "net/url"

// Scope identifies which subset of forum content a search targets.
type Scope string

const (
	ScopeTitles      Scope = "titles"
	ScopeTitlesPosts Scope = "titlesposts"
	ScopePosts       Scope = "posts"
	ScopeUsers       Scope = "users"
	ScopeTags        Scope = "tags"
	ScopeCategories  Scope = "categories"
	ScopeBookmarks   Scope = "bookmarks"
)

// IsContent reports whether the scope searches post content, and is
// therefore gated by the content search privilege.
func (s Scope) IsContent() bool {
	switch s {
	case ScopeTitles, ScopeTitlesPosts, ScopePosts, ScopeBookmarks:
		return true
	}
	return false
}

// IsRecordable reports whether queries against this scope count towards
// search-frequency analytics.
func (s Scope) IsRecordable() bool {
	switch s {
	case ScopeTitles, ScopeTitlesPosts, ScopePosts:
		return true
	}
	return false
}

// Category ID sentinels accepted in the categories filter.
const (
	CategoryAll     = "all"
	CategoryWatched = "watched"
)

// SearchInput is the canonical, normalized form of one search request.
// It is constructed once per request and never mutated afterwards.
type SearchInput struct {
	Query          string   `json:"query"`
	Scope          Scope    `json:"scope"`
	MatchWords     string   `json:"matchWords"` // "all" | "any"
	PostedBy       []string `json:"postedBy,omitempty"`
	CategoryIDs    []string `json:"categories,omitempty"` // may include "all" / "watched"
	SearchChildren bool     `json:"searchChildren"`
	HasTags        []string `json:"hasTags,omitempty"`
	Replies        string   `json:"replies,omitempty"`
	RepliesFilter  string   `json:"repliesFilter,omitempty"` // "atleast" | "atmost"
	TimeRange      string   `json:"timeRange,omitempty"`     // seconds
	TimeFilter     string   `json:"timeFilter,omitempty"`    // "newer" | "older"
	SortBy         string   `json:"sortBy"`
	SortDirection  string   `json:"sortDirection"`
	Page           int      `json:"page"`
	ItemsPerPage   int      `json:"itemsPerPage"`
	UID            int64    `json:"uid"`

	// Raw carries the original query parameters untouched, for consumers
	// that need parameters outside the canonical set.
	Raw url.Values `json:"-"`
}

// EngineQuery is a SearchInput with its symbolic filters resolved into
// concrete identifiers the search engine understands.
type EngineQuery struct {
	*SearchInput

	// ResolvedCategoryIDs is nil when the search is unrestricted.
	ResolvedCategoryIDs []int64
	// PostedByUIDs is the author filter resolved from usernames.
	PostedByUIDs []int64
}
