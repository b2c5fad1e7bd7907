package service

import (
	"html"
	"net/url"
	"strconv"

	"github.com/forumkit/forum-search-service/internal/domain"
)

// Normalize coerces loosely-typed query parameters into the canonical
// SearchInput. Malformed or missing optional parameters never fail;
// they fall back to documented defaults.
func (s *searchServiceImpl) Normalize(raw url.Values, uid int64) *domain.SearchInput {
	scope := domain.Scope(firstValue(raw, "in"))
	if scope == "" {
		scope = domain.Scope(s.cfg.DefaultScope)
	}

	matchWords := firstValue(raw, "matchWords")
	if matchWords != "any" {
		matchWords = "all"
	}

	// These values end up interpolated into UI label strings, so they
	// are escaped on the way in.
	sortBy := escapeParam(firstValue(raw, "sortBy"))
	if sortBy == "" {
		sortBy = s.cfg.DefaultSortBy
	}
	sortDirection := escapeParam(firstValue(raw, "sortDirection"))
	if sortDirection != "asc" {
		sortDirection = "desc"
	}

	page := parseIntOr(firstValue(raw, "page"), 1)
	if page < 1 {
		page = 1
	}
	itemsPerPage := parseIntOr(firstValue(raw, "itemsPerPage"), s.cfg.ItemsPerPage)
	if itemsPerPage < 1 {
		itemsPerPage = s.cfg.ItemsPerPage
	}
	if itemsPerPage > s.cfg.MaxItemsPerPage {
		itemsPerPage = s.cfg.MaxItemsPerPage
	}

	return &domain.SearchInput{
		Query:          firstValue(raw, "term"),
		Scope:          scope,
		MatchWords:     matchWords,
		PostedBy:       coerceToList(raw, "by"),
		CategoryIDs:    coerceToList(raw, "categories"),
		SearchChildren: parseBool(firstValue(raw, "searchChildren")),
		HasTags:        coerceToList(raw, "hasTags"),
		Replies:        escapeParam(firstValue(raw, "replies")),
		RepliesFilter:  escapeParam(firstValue(raw, "repliesFilter")),
		TimeRange:      escapeParam(firstValue(raw, "timeRange")),
		TimeFilter:     escapeParam(firstValue(raw, "timeFilter")),
		SortBy:         sortBy,
		SortDirection:  sortDirection,
		Page:           page,
		ItemsPerPage:   itemsPerPage,
		UID:            uid,
		Raw:            raw,
	}
}

// coerceToList returns the values of a list-valued parameter: absent stays
// absent, a single value becomes a one-element list, repeated values pass
// through unchanged. The bracketed form of the key is accepted too.
func coerceToList(raw url.Values, key string) []string {
	if vals, ok := raw[key]; ok {
		return vals
	}
	if vals, ok := raw[key+"[]"]; ok {
		return vals
	}
	return nil
}

func firstValue(raw url.Values, key string) string {
	if vals, ok := raw[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// escapeParam HTML-escapes a free-text filter value before it reaches a
// localized label template. Output sanitization, not business logic.
func escapeParam(v string) string {
	if v == "" {
		return ""
	}
	return html.EscapeString(v)
}

func parseIntOr(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(v string) bool {
	return v == "true" || v == "1"
}
