package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/forumkit/forum-search-service/internal/analytics"
	"github.com/forumkit/forum-search-service/internal/cache"
	"github.com/forumkit/forum-search-service/internal/config"
	"github.com/forumkit/forum-search-service/internal/domain"
	"github.com/forumkit/forum-search-service/internal/repository"
	"github.com/forumkit/forum-search-service/pkg/log"
)

type searchServiceImpl struct {
	engine     repository.SearchEngine
	categories repository.CategoryRepository
	users      repository.UserRepository
	tags       repository.TagRepository
	privileges repository.PrivilegeRepository
	recorder   *analytics.Recorder
	counters   analytics.CounterStore
	cache      cache.ResultCache
	cacheTTL   time.Duration
	cfg        config.SearchConfig
	hooks      []PermissionHook
	sf         singleflight.Group
}

// Deps bundles the collaborators of the search service.
type Deps struct {
	Engine     repository.SearchEngine
	Categories repository.CategoryRepository
	Users      repository.UserRepository
	Tags       repository.TagRepository
	Privileges repository.PrivilegeRepository
	Recorder   *analytics.Recorder
	Counters   analytics.CounterStore
	Cache      cache.ResultCache
	CacheTTL   time.Duration
}

// NewSearchService creates a new search service. Engine may be nil, in
// which case ProviderRegistered reports false and the search route is
// treated as not applicable.
func NewSearchService(deps Deps, cfg config.SearchConfig) SearchService {
	return &searchServiceImpl{
		engine:     deps.Engine,
		categories: deps.Categories,
		users:      deps.Users,
		tags:       deps.Tags,
		privileges: deps.Privileges,
		recorder:   deps.Recorder,
		counters:   deps.Counters,
		cache:      deps.Cache,
		cacheTTL:   deps.CacheTTL,
		cfg:        cfg,
	}
}

func (s *searchServiceImpl) ProviderRegistered() bool {
	return s.engine != nil
}

func (s *searchServiceImpl) Search(ctx context.Context, input *domain.SearchInput) (*domain.SearchResult, error) {
	// Analytics runs alongside the engine call and is never awaited;
	// any failure there stays inside the recorder.
	s.recorder.Record(input.UID, input.Query, input.Scope, input.Raw.Get("composer") == "1")

	key := s.cache.BuildKey(input)

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("cache get error")
		}

		var res *domain.SearchResult
		if input.Scope == domain.ScopeCategories {
			res, err = s.searchCategories(ctx, input)
		} else {
			var q *domain.EngineQuery
			q, err = s.resolveEngineQuery(ctx, input)
			if err == nil {
				res, err = s.engine.Search(ctx, q)
			}
		}
		if err != nil {
			return nil, err
		}

		s.asyncCacheSet(key, res)

		return res, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*domain.SearchResult), nil
}

// resolveEngineQuery turns symbolic filters (category sentinels, author
// usernames) into the concrete ids the engine filters on. The two lookups
// are independent and run concurrently.
func (s *searchServiceImpl) resolveEngineQuery(ctx context.Context, input *domain.SearchInput) (*domain.EngineQuery, error) {
	q := &domain.EngineQuery{SearchInput: input}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cids, err := s.resolveCategoryIDs(gctx, input)
		q.ResolvedCategoryIDs = cids
		return err
	})

	if len(input.PostedBy) > 0 {
		g.Go(func() error {
			uids, err := s.users.UIDsByUsernames(gctx, input.PostedBy)
			q.PostedByUIDs = uids
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return q, nil
}

// resolveCategoryIDs maps the categories filter to concrete ids. An empty
// filter or the "all" sentinel means unrestricted; "watched" expands to
// the caller's watched categories; searchChildren pulls in descendants.
func (s *searchServiceImpl) resolveCategoryIDs(ctx context.Context, input *domain.SearchInput) ([]int64, error) {
	if len(input.CategoryIDs) == 0 {
		return nil, nil
	}

	watched := false
	var cids []int64
	for _, id := range input.CategoryIDs {
		switch id {
		case domain.CategoryAll:
			return nil, nil
		case domain.CategoryWatched:
			watched = true
		default:
			if cid, err := strconv.ParseInt(id, 10, 64); err == nil {
				cids = append(cids, cid)
			}
		}
	}

	if watched {
		watchedIDs, err := s.categories.WatchedIDs(ctx, input.UID)
		if err != nil {
			return nil, err
		}
		cids = append(cids, watchedIDs...)
	}

	if input.SearchChildren && len(cids) > 0 {
		return s.categories.ChildIDs(ctx, cids)
	}
	return cids, nil
}

// searchCategories serves the categories scope from the relational store;
// the category tree is not indexed by the engine.
func (s *searchServiceImpl) searchCategories(ctx context.Context, input *domain.SearchInput) (*domain.SearchResult, error) {
	offset := (input.Page - 1) * input.ItemsPerPage
	categories, total, err := s.categories.Search(ctx, input.Query, offset, input.ItemsPerPage)
	if err != nil {
		return nil, err
	}

	return &domain.SearchResult{
		Categories: categories,
		MatchCount: total,
		PageCount:  pageCount(total, input.ItemsPerPage),
	}, nil
}

func (s *searchServiceImpl) asyncCacheSet(key string, result *domain.SearchResult) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			l := log.L()
			l.Warn().Err(err).Str("key", key).Msg("cache set error")
		}
	}()
}

func (s *searchServiceImpl) TopSearches(ctx context.Context, period string, n int64) ([]analytics.QueryCount, error) {
	if period == "day" {
		return s.counters.TopForDay(ctx, analytics.DayStart(time.Now()), n)
	}
	return s.counters.TopAllTime(ctx, n)
}

func pageCount(total, itemsPerPage int) int {
	if itemsPerPage <= 0 {
		return 1
	}
	pages := (total + itemsPerPage - 1) / itemsPerPage
	if pages < 1 {
		pages = 1
	}
	return pages
}
