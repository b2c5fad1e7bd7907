package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forumkit/forum-search-service/internal/service"
	"github.com/forumkit/forum-search-service/pkg/log"
	"github.com/forumkit/forum-search-service/pkg/middleware"
	"github.com/forumkit/forum-search-service/pkg/response"
)

// Handler handles HTTP requests for the search page.
type Handler struct {
	searchService service.SearchService
}

// NewHandler creates a new HTTP handler.
func NewHandler(searchService service.SearchService) *Handler {
	return &Handler{
		searchService: searchService,
	}
}

// RegisterRoutes registers all routes. The search route carries a
// fall-through handler for when no search provider is registered.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/search", h.Search, h.searchUnavailable)
		api.GET("/search/top", h.TopSearches)
	}
}

// Search handles the search page request. searchOnly=1 yields the JSON
// subset; otherwise the full page view-model is returned.
func (h *Handler) Search(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	// No provider means this route is not applicable, not an error.
	if !h.searchService.ProviderRegistered() {
		c.Next()
		return
	}

	uid := middleware.UID(c)
	input := h.searchService.Normalize(c.Request.URL.Query(), uid)

	allowed, privs, err := h.searchService.Authorize(ctx, input)
	if err != nil {
		l.Error().Err(err).Int64("uid", uid).Msg("privilege resolution failed")
		response.InternalError(c, "search failed")
		c.Abort()
		return
	}
	if !allowed {
		l.Warn().Int64("uid", uid).Str("scope", string(input.Scope)).Msg("search scope not allowed")
		response.Forbidden(c, "[[error:no-privileges]]")
		c.Abort()
		return
	}

	result, err := h.searchService.Search(ctx, input)
	if err != nil {
		l.Error().Err(err).Str("query", input.Query).Msg("search failed")
		response.InternalError(c, "search failed")
		c.Abort()
		return
	}

	if input.Raw.Get("searchOnly") == "1" {
		response.Success(c, h.searchService.BuildPayload(input, result))
		c.Abort()
		return
	}

	page, err := h.searchService.BuildPage(ctx, input, result, privs)
	if err != nil {
		l.Error().Err(err).Str("query", input.Query).Msg("page assembly failed")
		response.InternalError(c, "search failed")
		c.Abort()
		return
	}

	response.Success(c, page)
	c.Abort()
}

// searchUnavailable is the fall-through when nothing implements search.
func (h *Handler) searchUnavailable(c *gin.Context) {
	response.NotFound(c, "no search provider registered")
}

// TopSearches returns the most frequent search queries, all-time by
// default or for the current day with period=day.
func (h *Handler) TopSearches(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	n, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || n < 1 || n > 100 {
		n = 10
	}

	top, err := h.searchService.TopSearches(ctx, c.Query("period"), n)
	if err != nil {
		l.Error().Err(err).Msg("failed to load top searches")
		response.InternalError(c, "failed to load top searches")
		return
	}

	response.Success(c, top)
}
