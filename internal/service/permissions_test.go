package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/forumkit/forum-search-service/internal/domain"
	"github.com/forumkit/forum-search-service/internal/repository"
)

type fakePrivilegeRepo struct {
	grants map[string]bool
	err    error
}

func (r *fakePrivilegeRepo) Can(_ context.Context, _ int64, privilege string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.grants[privilege], nil
}

func authService(grants map[string]bool) *searchServiceImpl {
	return &searchServiceImpl{
		cfg:        testSearchConfig(),
		privileges: &fakePrivilegeRepo{grants: grants},
	}
}

func inputForScope(scope domain.Scope) *domain.SearchInput {
	return &domain.SearchInput{Query: "anything", Scope: scope, Raw: url.Values{}}
}

func TestAuthorizeScopeTable(t *testing.T) {
	allGrants := map[string]bool{
		repository.PrivSearchUsers:   true,
		repository.PrivSearchContent: true,
		repository.PrivSearchTags:    true,
	}

	tests := []struct {
		scope   domain.Scope
		grants  map[string]bool
		allowed bool
	}{
		{scope: domain.ScopeUsers, grants: allGrants, allowed: true},
		{scope: domain.ScopeUsers, grants: map[string]bool{repository.PrivSearchContent: true}, allowed: false},
		{scope: domain.ScopeTags, grants: allGrants, allowed: true},
		{scope: domain.ScopeTags, grants: map[string]bool{repository.PrivSearchContent: true}, allowed: false},
		{scope: domain.ScopeCategories, grants: nil, allowed: true},
		{scope: domain.ScopeTitles, grants: allGrants, allowed: true},
		{scope: domain.ScopeTitlesPosts, grants: allGrants, allowed: true},
		{scope: domain.ScopePosts, grants: allGrants, allowed: true},
		{scope: domain.ScopeBookmarks, grants: allGrants, allowed: true},
		{scope: domain.ScopeTitles, grants: map[string]bool{repository.PrivSearchUsers: true}, allowed: false},
		{scope: domain.Scope("notascope"), grants: allGrants, allowed: false},
		{scope: domain.Scope(""), grants: allGrants, allowed: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			s := authService(tt.grants)
			allowed, privs, err := s.Authorize(context.Background(), inputForScope(tt.scope))
			if err != nil {
				t.Fatalf("Authorize error: %v", err)
			}
			if allowed != tt.allowed {
				t.Errorf("allowed = %v, want %v", allowed, tt.allowed)
			}
			if privs == nil {
				t.Fatal("privileges should always be resolved")
			}
		})
	}
}

func TestAuthorizeHookOverride(t *testing.T) {
	s := authService(nil) // no grants at all

	s.RegisterPermissionHook(func(_ context.Context, req *PermissionRequest) error {
		if req.Scope == domain.ScopeTitlesPosts {
			req.Allowed = true
		}
		return nil
	})

	allowed, _, err := s.Authorize(context.Background(), inputForScope(domain.ScopeTitlesPosts))
	if err != nil {
		t.Fatalf("Authorize error: %v", err)
	}
	if !allowed {
		t.Error("hook override should allow the search")
	}
}

func TestAuthorizeHookChainLastWins(t *testing.T) {
	s := authService(map[string]bool{repository.PrivSearchContent: true})

	s.RegisterPermissionHook(func(_ context.Context, req *PermissionRequest) error {
		req.Allowed = true
		return nil
	})
	s.RegisterPermissionHook(func(_ context.Context, req *PermissionRequest) error {
		req.Allowed = false
		return nil
	})

	allowed, _, err := s.Authorize(context.Background(), inputForScope(domain.ScopeTitlesPosts))
	if err != nil {
		t.Fatalf("Authorize error: %v", err)
	}
	if allowed {
		t.Error("the final hook's decision should be authoritative")
	}
}

func TestAuthorizeLookupError(t *testing.T) {
	s := &searchServiceImpl{
		cfg:        testSearchConfig(),
		privileges: &fakePrivilegeRepo{err: errors.New("db down")},
	}

	_, _, err := s.Authorize(context.Background(), inputForScope(domain.ScopeTitlesPosts))
	if err == nil {
		t.Error("lookup failures should surface as errors")
	}
}
