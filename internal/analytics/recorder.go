package analytics

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/forumkit/forum-search-service/internal/domain"
	"github.com/forumkit/forum-search-service/pkg/log"
)

const (
	maxQueryLength = 255
	minQueryLength = 3
	storeTimeout   = 2 * time.Second
)

// pendingBatch accumulates the queries one user typed within the current
// debounce window.
type pendingBatch struct {
	timer   *time.Timer
	queries []string
}

// Recorder counts search queries with debouncing and prefix-collapsing, so
// incremental typing of the same query inflates neither the all-time nor
// the per-day frequency counters. It is purely observational: Record never
// blocks and no failure ever reaches the request path.
type Recorder struct {
	store  CounterStore
	window time.Duration

	mu      sync.Mutex
	pending map[int64]*pendingBatch

	// Injectable for tests.
	afterFunc func(d time.Duration, f func()) *time.Timer
	now       func() time.Time
}

// NewRecorder creates a recorder flushing each user's batch after the
// given idle window.
func NewRecorder(store CounterStore, window time.Duration) *Recorder {
	return &Recorder{
		store:     store,
		window:    window,
		pending:   make(map[int64]*pendingBatch),
		afterFunc: time.AfterFunc,
		now:       time.Now,
	}
}

// Record registers one search query for a user. It is fire-and-forget:
// ineligible queries are dropped silently, eligible ones are batched and
// flushed once the user has been idle for the debounce window.
//
// inComposer marks keystroke-driven inline searches, which never count as
// intentional search submissions.
func (r *Recorder) Record(uid int64, query string, scope domain.Scope, inComposer bool) {
	if inComposer || !scope.IsRecordable() {
		return
	}
	cleaned := cleanQuery(query)
	if len([]rune(cleaned)) < minQueryLength {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.pending[uid]
	if !ok {
		b = &pendingBatch{}
		r.pending[uid] = b
	}
	b.queries = append(b.queries, cleaned)

	// One flush per idle window: every new query re-arms the timer.
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = r.afterFunc(r.window, func() { r.flush(uid) })
}

// flush drains the user's pending batch and increments the counters for
// the surviving queries. Increments run independently in parallel; a
// failure in one never blocks the others, and nothing is retried.
func (r *Recorder) flush(uid int64) {
	r.mu.Lock()
	b, ok := r.pending[uid]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.pending, uid)
	r.mu.Unlock()

	dayStart := DayStart(r.now())

	var wg sync.WaitGroup
	for _, query := range collapsePrefixes(b.queries) {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()
			if err := r.store.IncrQueryCount(ctx, q, dayStart); err != nil {
				l := log.L()
				l.Warn().Err(err).Str("query", q).Msg("failed to record search query")
			}
		}(query)
	}
	wg.Wait()
}

// cleanQuery normalizes a raw query for counting: trimmed, lower-cased,
// truncated to 255 characters.
func cleanQuery(query string) string {
	cleaned := strings.ToLower(strings.TrimSpace(query))
	if runes := []rune(cleaned); len(runes) > maxQueryLength {
		cleaned = string(runes[:maxQueryLength])
	}
	return cleaned
}

// collapsePrefixes returns the deduplicated maximal-only subset of the
// batch: a query is dropped when some strictly longer query in the batch
// starts with it, since the shorter string was typed en route to the
// longer one. Batches are keystroke-sized, so the quadratic scan is fine.
func collapsePrefixes(queries []string) []string {
	out := make([]string, 0, len(queries))
	seen := make(map[string]bool, len(queries))

	for _, q := range queries {
		if seen[q] {
			continue
		}
		maximal := true
		for _, other := range queries {
			if len(other) > len(q) && strings.HasPrefix(other, q) {
				maximal = false
				break
			}
		}
		if maximal {
			seen[q] = true
			out = append(out, q)
		}
	}
	return out
}

// DayStart returns the start of t's calendar day in t's location. Day
// buckets are keyed by this timestamp.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
