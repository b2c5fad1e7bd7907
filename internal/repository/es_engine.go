package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/forumkit/forum-search-service/internal/config"
	"github.com/forumkit/forum-search-service/internal/domain"
)

type esSearchEngine struct {
	client *elasticsearch.Client
	cfg    config.ElasticsearchConfig
}

// NewESSearchEngine creates an Elasticsearch-backed search engine.
func NewESSearchEngine(client *elasticsearch.Client, cfg config.ElasticsearchConfig) SearchEngine {
	return &esSearchEngine{
		client: client,
		cfg:    cfg,
	}
}

func (e *esSearchEngine) Search(ctx context.Context, q *domain.EngineQuery) (*domain.SearchResult, error) {
	var indexes []string
	var body map[string]interface{}

	switch q.Scope {
	case domain.ScopeTitles:
		indexes = []string{e.cfg.IndexTopics}
		body = e.contentQuery(q, []string{"title"})
	case domain.ScopeTitlesPosts:
		indexes = []string{e.cfg.IndexTopics, e.cfg.IndexPosts}
		body = e.contentQuery(q, []string{"title", "content"})
	case domain.ScopePosts, domain.ScopeBookmarks:
		indexes = []string{e.cfg.IndexPosts}
		body = e.contentQuery(q, []string{"content"})
	case domain.ScopeUsers:
		indexes = []string{e.cfg.IndexUsers}
		body = e.userQuery(q)
	case domain.ScopeTags:
		indexes = []string{e.cfg.IndexTags}
		body = e.tagQuery(q)
	default:
		return nil, fmt.Errorf("unsearchable scope: %s", q.Scope)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(indexes...),
		e.client.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", q.Scope, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var parsed esResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := &domain.SearchResult{
		MatchCount: parsed.Hits.Total.Value,
		PageCount:  pageCount(parsed.Hits.Total.Value, q.ItemsPerPage),
	}

	switch q.Scope {
	case domain.ScopeUsers:
		result.Users = decodeHits(parsed, func(d esUserDoc) domain.UserResult {
			return domain.UserResult{UID: d.UID, Username: d.Username, Userslug: d.Userslug, Picture: d.Picture}
		})
	case domain.ScopeTags:
		result.Tags = decodeHits(parsed, func(d esTagDoc) domain.TagResult {
			return domain.TagResult{Value: d.Value, TopicCount: d.TopicCount}
		})
	default:
		result.Posts = decodeHits(parsed, func(d esPostDoc) domain.PostResult {
			return domain.PostResult{
				PID:        d.PID,
				TID:        d.TID,
				UID:        d.UID,
				CID:        d.CID,
				Title:      d.Title,
				Content:    d.Content,
				Timestamp:  d.Timestamp,
				ReplyCount: d.ReplyCount,
			}
		})
	}

	return result, nil
}

// contentQuery builds the bool query for post/topic scopes, mapping the
// normalized filters onto the engine's query DSL.
func (e *esSearchEngine) contentQuery(q *domain.EngineQuery, fields []string) map[string]interface{} {
	operator := "or"
	if q.MatchWords != "any" {
		operator = "and"
	}

	must := []interface{}{
		map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":    q.Query,
				"fields":   fields,
				"operator": operator,
			},
		},
	}

	var filter []interface{}
	if len(q.ResolvedCategoryIDs) > 0 {
		filter = append(filter, map[string]interface{}{
			"terms": map[string]interface{}{"cid": q.ResolvedCategoryIDs},
		})
	}
	if len(q.PostedByUIDs) > 0 {
		filter = append(filter, map[string]interface{}{
			"terms": map[string]interface{}{"uid": q.PostedByUIDs},
		})
	}
	if len(q.HasTags) > 0 {
		filter = append(filter, map[string]interface{}{
			"terms": map[string]interface{}{"tags": q.HasTags},
		})
	}
	if q.Scope == domain.ScopeBookmarks {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"bookmarked_by": q.UID},
		})
	}
	if f := repliesRange(q.Replies, q.RepliesFilter); f != nil {
		filter = append(filter, f)
	}
	if f := timestampRange(q.TimeRange, q.TimeFilter); f != nil {
		filter = append(filter, f)
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	return map[string]interface{}{
		"from":  (q.Page - 1) * q.ItemsPerPage,
		"size":  q.ItemsPerPage,
		"query": map[string]interface{}{"bool": boolQuery},
		"sort":  sortClause(q.SortBy, q.SortDirection),
	}
}

func (e *esSearchEngine) userQuery(q *domain.EngineQuery) map[string]interface{} {
	return map[string]interface{}{
		"from": (q.Page - 1) * q.ItemsPerPage,
		"size": q.ItemsPerPage,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Query,
				"fields": []string{"username", "fullname"},
			},
		},
	}
}

func (e *esSearchEngine) tagQuery(q *domain.EngineQuery) map[string]interface{} {
	return map[string]interface{}{
		"from": (q.Page - 1) * q.ItemsPerPage,
		"size": q.ItemsPerPage,
		"query": map[string]interface{}{
			"match_phrase_prefix": map[string]interface{}{
				"value": q.Query,
			},
		},
	}
}

// repliesRange maps the reply-count filter onto a range clause. The value
// arrives pre-escaped; anything non-numeric is ignored.
func repliesRange(replies, filter string) map[string]interface{} {
	n, err := strconv.Atoi(replies)
	if err != nil || n <= 0 {
		return nil
	}
	op := "gte"
	if filter == "atmost" {
		op = "lte"
	}
	return map[string]interface{}{
		"range": map[string]interface{}{
			"reply_count": map[string]interface{}{op: n},
		},
	}
}

// timestampRange maps the time-range filter (seconds back from now) onto a
// range clause over the document timestamp in epoch millis.
func timestampRange(timeRange, filter string) map[string]interface{} {
	seconds, err := strconv.ParseInt(timeRange, 10, 64)
	if err != nil || seconds <= 0 {
		return nil
	}
	cutoff := time.Now().Add(-time.Duration(seconds) * time.Second).UnixMilli()
	op := "gte"
	if filter == "older" {
		op = "lte"
	}
	return map[string]interface{}{
		"range": map[string]interface{}{
			"timestamp": map[string]interface{}{op: cutoff},
		},
	}
}

func sortClause(sortBy, direction string) []interface{} {
	if direction != "asc" {
		direction = "desc"
	}
	field := "_score"
	switch sortBy {
	case "timestamp":
		field = "timestamp"
	case "topic.title":
		field = "title.keyword"
	case "topic.postcount":
		field = "reply_count"
	}
	return []interface{}{
		map[string]interface{}{field: map[string]interface{}{"order": direction}},
	}
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

func decodeHits[D, R any](parsed esResponse, convert func(D) R) []R {
	out := make([]R, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		var doc D
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			continue
		}
		out = append(out, convert(doc))
	}
	return out
}

// esResponse is the generic Elasticsearch search response structure.
type esResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type esPostDoc struct {
	PID        int64  `json:"pid"`
	TID        int64  `json:"tid"`
	UID        int64  `json:"uid"`
	CID        int64  `json:"cid"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
	ReplyCount int    `json:"reply_count"`
}

type esUserDoc struct {
	UID      int64  `json:"uid"`
	Username string `json:"username"`
	Userslug string `json:"userslug"`
	Picture  string `json:"picture"`
}

type esTagDoc struct {
	Value      string `json:"value"`
	TopicCount int64  `json:"topic_count"`
}
