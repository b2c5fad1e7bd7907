package service

import (
	"fmt"
	"strings"

	"github.com/forumkit/forum-search-service/internal/domain"
)

// buildFilters assembles the six filter-chip descriptors shown on the
// search page. Labels are localization tokens resolved client-side; the
// interpolated values were escaped during normalization.
func (s *searchServiceImpl) buildFilters(input *domain.SearchInput, categoryName string) map[string]domain.FilterChip {
	return map[string]domain.FilterChip{
		"replies": {
			Active: input.Replies != "",
			Label:  repliesLabel(input.Replies, input.RepliesFilter),
		},
		"time": {
			Active: input.TimeRange != "",
			Label:  timeLabel(input.TimeRange, input.TimeFilter),
		},
		"sort": {
			Active: input.SortBy != s.cfg.DefaultSortBy,
			Label:  fmt.Sprintf("[[search:sort-by-%s-%s]]", input.SortBy, input.SortDirection),
		},
		"users": {
			Active: len(input.PostedBy) > 0,
			Label:  postedByLabel(input.PostedBy),
		},
		"tags": {
			Active: len(input.HasTags) > 0,
			Label:  tagsLabel(input.HasTags),
		},
		"categories": {
			Active: len(input.CategoryIDs) > 0 && input.CategoryIDs[0] != domain.CategoryAll,
			Label:  buildSelectedCategoryLabel(input.CategoryIDs, categoryName),
		},
	}
}

func repliesLabel(replies, filter string) string {
	if replies == "" {
		return "[[search:replies]]"
	}
	if filter != "atmost" {
		filter = "atleast"
	}
	return fmt.Sprintf("[[search:replies-%s-count, %s]]", filter, replies)
}

func timeLabel(timeRange, filter string) string {
	if timeRange == "" {
		return "[[search:time]]"
	}
	if filter != "older" {
		filter = "newer"
	}
	return fmt.Sprintf("[[search:time-%s-than-%s]]", filter, timeRange)
}

func postedByLabel(usernames []string) string {
	if len(usernames) == 0 {
		return "[[search:posted-by]]"
	}
	return fmt.Sprintf("[[search:posted-by-usernames, %s]]", strings.Join(usernames, ", "))
}

func tagsLabel(tags []string) string {
	if len(tags) == 0 {
		return "[[search:tags]]"
	}
	return fmt.Sprintf("[[search:tags-x, %s]]", strings.Join(tags, ", "))
}

// buildSelectedCategoryLabel picks the categories chip label: the watched
// sentinel has its own literal, multiple selections show a count, a single
// concrete selection embeds the resolved category name.
func buildSelectedCategoryLabel(ids []string, categoryName string) string {
	switch {
	case len(ids) == 0 || ids[0] == domain.CategoryAll:
		return "[[search:categories]]"
	case ids[0] == domain.CategoryWatched:
		return "[[search:categories-watched-categories]]"
	case len(ids) > 1:
		return fmt.Sprintf("[[search:categories-x, %d]]", len(ids))
	default:
		return fmt.Sprintf("[[search:categories-x, %s]]", categoryName)
	}
}
