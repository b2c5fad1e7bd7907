package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/forumkit/forum-search-service/internal/analytics"
	"github.com/forumkit/forum-search-service/internal/domain"
	"github.com/forumkit/forum-search-service/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSearchService struct {
	provider bool
	allowed  bool
}

func (s *fakeSearchService) ProviderRegistered() bool { return s.provider }

func (s *fakeSearchService) Normalize(raw url.Values, uid int64) *domain.SearchInput {
	return &domain.SearchInput{
		Query:        raw.Get("term"),
		Scope:        domain.ScopeTitlesPosts,
		Page:         1,
		ItemsPerPage: 10,
		UID:          uid,
		Raw:          raw,
	}
}

func (s *fakeSearchService) Authorize(context.Context, *domain.SearchInput) (bool, *domain.Privileges, error) {
	return s.allowed, &domain.Privileges{SearchContent: s.allowed}, nil
}

func (s *fakeSearchService) RegisterPermissionHook(service.PermissionHook) {}

func (s *fakeSearchService) Search(context.Context, *domain.SearchInput) (*domain.SearchResult, error) {
	return &domain.SearchResult{
		Posts:      []domain.PostResult{{TID: 1, Title: "hello"}},
		MatchCount: 1,
		PageCount:  1,
	}, nil
}

func (s *fakeSearchService) BuildPayload(input *domain.SearchInput, result *domain.SearchResult) domain.SearchPayload {
	return domain.SearchPayload{
		SearchResult: result,
		Pagination:   domain.NewPagination(input.Page, result.PageCount),
		SearchQuery:  input.Query,
		Term:         input.Query,
	}
}

func (s *fakeSearchService) BuildPage(_ context.Context, input *domain.SearchInput, result *domain.SearchResult, privs *domain.Privileges) (*domain.SearchPageData, error) {
	return &domain.SearchPageData{
		SearchPayload: s.BuildPayload(input, result),
		Breadcrumbs:   []domain.Breadcrumb{{Text: "[[global:search]]"}},
		Filters:       map[string]domain.FilterChip{"replies": {Label: "[[search:replies]]"}},
		Privileges:    *privs,
	}, nil
}

func (s *fakeSearchService) TopSearches(context.Context, string, int64) ([]analytics.QueryCount, error) {
	return []analytics.QueryCount{{Query: "golang", Count: 3}}, nil
}

func newTestRouter(svc service.SearchService) *gin.Engine {
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func doGet(t *testing.T, r *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestSearchNoProviderFallsThrough(t *testing.T) {
	r := newTestRouter(&fakeSearchService{provider: false, allowed: true})

	w := doGet(t, r, "/api/v1/search?term=hello")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestSearchDenied(t *testing.T) {
	r := newTestRouter(&fakeSearchService{provider: true, allowed: false})

	w := doGet(t, r, "/api/v1/search?term=hello")
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestSearchOnlyOmitsPageFields(t *testing.T) {
	r := newTestRouter(&fakeSearchService{provider: true, allowed: true})

	w := doGet(t, r, "/api/v1/search?term=hello&searchOnly=1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var envelope struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	for _, key := range []string{"breadcrumbs", "filters", "privileges"} {
		if _, ok := envelope.Data[key]; ok {
			t.Errorf("searchOnly response must not contain %q", key)
		}
	}
	for _, key := range []string{"pageCount", "pagination", "multiplePages", "search_query", "term"} {
		if _, ok := envelope.Data[key]; !ok {
			t.Errorf("searchOnly response missing %q", key)
		}
	}
}

func TestSearchPageMode(t *testing.T) {
	r := newTestRouter(&fakeSearchService{provider: true, allowed: true})

	w := doGet(t, r, "/api/v1/search?term=hello")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var envelope struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	for _, key := range []string{"breadcrumbs", "filters", "privileges", "pagination", "term"} {
		if _, ok := envelope.Data[key]; !ok {
			t.Errorf("page response missing %q", key)
		}
	}
}

func TestTopSearches(t *testing.T) {
	r := newTestRouter(&fakeSearchService{provider: true, allowed: true})

	w := doGet(t, r, "/api/v1/search/top?limit=5")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var envelope struct {
		Data []analytics.QueryCount `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Query != "golang" {
		t.Errorf("top searches = %v", envelope.Data)
	}
}
