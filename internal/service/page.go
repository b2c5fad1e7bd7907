package service

import (
	"context"
	"html"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/forumkit/forum-search-service/internal/domain"
)

// BuildPayload assembles the JSON-mode response body. Page-only fields
// (breadcrumbs, filters, privileges) are not part of this type.
func (s *searchServiceImpl) BuildPayload(input *domain.SearchInput, result *domain.SearchResult) domain.SearchPayload {
	return domain.SearchPayload{
		SearchResult:  result,
		Pagination:    domain.NewPagination(input.Page, result.PageCount),
		MultiplePages: result.PageCount > 1,
		SearchQuery:   html.EscapeString(input.Query),
		Term:          input.Query,
	}
}

// BuildPage assembles the full search page view-model. The chip lookups
// (selected users, tags, single category name) are independent and run
// concurrently.
func (s *searchServiceImpl) BuildPage(ctx context.Context, input *domain.SearchInput, result *domain.SearchResult, privs *domain.Privileges) (*domain.SearchPageData, error) {
	showAs := input.Raw.Get("showAs")

	page := &domain.SearchPageData{
		SearchPayload: s.BuildPayload(input, result),
		Breadcrumbs:   []domain.Breadcrumb{{Text: "[[global:search]]"}},
		ShowAsPosts:   showAs != "topics",
		ShowAsTopics:  showAs == "topics",
		Title:         "[[global:header.search]]",
		SelectedCIDs:  input.CategoryIDs,
		DefaultScope:  domain.Scope(s.cfg.DefaultScope),
		DefaultSortBy: s.cfg.DefaultSortBy,
		Privileges:    *privs,
	}

	var categoryName string

	g, gctx := errgroup.WithContext(ctx)

	if len(input.PostedBy) > 0 {
		g.Go(func() error {
			users, err := s.users.ByUsernames(gctx, input.PostedBy)
			page.SelectedUsers = users
			return err
		})
	}
	if len(input.HasTags) > 0 {
		g.Go(func() error {
			tags, err := s.tags.ByValues(gctx, input.HasTags)
			page.SelectedTags = tags
			return err
		})
	}
	if cid, ok := singleConcreteCategory(input.CategoryIDs); ok {
		g.Go(func() error {
			names, err := s.categories.NamesByIDs(gctx, []int64{cid})
			categoryName = names[cid]
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	page.Filters = s.buildFilters(input, categoryName)

	return page, nil
}

// singleConcreteCategory reports whether the filter selects exactly one
// real category, whose name the categories chip embeds.
func singleConcreteCategory(ids []string) (int64, bool) {
	if len(ids) != 1 {
		return 0, false
	}
	cid, err := strconv.ParseInt(ids[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return cid, true
}
