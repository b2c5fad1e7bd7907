package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/forumkit/forum-search-service/internal/domain"
	"github.com/forumkit/forum-search-service/internal/repository"
)

// Authorize resolves the caller's capability flags and decides whether the
// requested scope may be searched. Scopes outside the known set are denied
// unless a registered hook overrides the decision. Denial is an ordinary
// outcome; errors are reserved for lookup failures.
func (s *searchServiceImpl) Authorize(ctx context.Context, input *domain.SearchInput) (bool, *domain.Privileges, error) {
	privs, err := s.resolvePrivileges(ctx, input.UID)
	if err != nil {
		return false, nil, err
	}

	allowed := false
	switch {
	case input.Scope == domain.ScopeUsers:
		allowed = privs.SearchUsers
	case input.Scope == domain.ScopeTags:
		allowed = privs.SearchTags
	case input.Scope == domain.ScopeCategories:
		allowed = true
	case input.Scope.IsContent():
		allowed = privs.SearchContent
	}

	req := &PermissionRequest{
		UID:     input.UID,
		Query:   input.Query,
		Scope:   input.Scope,
		Allowed: allowed,
	}
	for _, hook := range s.hooks {
		if err := hook(ctx, req); err != nil {
			return false, nil, err
		}
	}

	return req.Allowed, privs, nil
}

func (s *searchServiceImpl) RegisterPermissionHook(hook PermissionHook) {
	s.hooks = append(s.hooks, hook)
}

// resolvePrivileges issues the three capability lookups concurrently and
// waits for all of them.
func (s *searchServiceImpl) resolvePrivileges(ctx context.Context, uid int64) (*domain.Privileges, error) {
	var privs domain.Privileges

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		privs.SearchUsers, err = s.privileges.Can(gctx, uid, repository.PrivSearchUsers)
		return err
	})
	g.Go(func() error {
		var err error
		privs.SearchContent, err = s.privileges.Can(gctx, uid, repository.PrivSearchContent)
		return err
	})
	g.Go(func() error {
		var err error
		privs.SearchTags, err = s.privileges.Can(gctx, uid, repository.PrivSearchTags)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &privs, nil
}
