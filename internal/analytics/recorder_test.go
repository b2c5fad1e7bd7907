package analytics

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/forumkit/forum-search-service/internal/domain"
)

type fakeCounterStore struct {
	mu     sync.Mutex
	counts map[string]int
	days   map[string]time.Time
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{
		counts: make(map[string]int),
		days:   make(map[string]time.Time),
	}
}

func (s *fakeCounterStore) IncrQueryCount(_ context.Context, query string, dayStart time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[query]++
	s.days[query] = dayStart
	return nil
}

func (s *fakeCounterStore) TopAllTime(context.Context, int64) ([]QueryCount, error) {
	return nil, nil
}

func (s *fakeCounterStore) TopForDay(context.Context, time.Time, int64) ([]QueryCount, error) {
	return nil, nil
}

func (s *fakeCounterStore) count(query string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[query]
}

func (s *fakeCounterStore) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

// newTestRecorder uses a window long enough that timers never fire during
// the test; flushes are driven explicitly.
func newTestRecorder(store CounterStore) *Recorder {
	return NewRecorder(store, time.Hour)
}

func TestRecorderPrefixCollapse(t *testing.T) {
	store := newFakeCounterStore()
	r := newTestRecorder(store)

	r.Record(1, "cat", domain.ScopeTitlesPosts, false)
	r.Record(1, "catbox", domain.ScopeTitlesPosts, false)
	r.flush(1)

	if got := store.count("catbox"); got != 1 {
		t.Errorf("catbox count = %d, want 1", got)
	}
	if got := store.count("cat"); got != 0 {
		t.Errorf("cat count = %d, want 0", got)
	}
}

func TestRecorderDeduplicates(t *testing.T) {
	store := newFakeCounterStore()
	r := newTestRecorder(store)

	r.Record(1, "golang", domain.ScopePosts, false)
	r.Record(1, "golang", domain.ScopePosts, false)
	r.flush(1)

	if got := store.count("golang"); got != 1 {
		t.Errorf("golang count = %d, want 1", got)
	}
}

func TestRecorderEligibility(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		scope      domain.Scope
		inComposer bool
		recorded   bool
	}{
		{name: "normal content search", query: "concurrency", scope: domain.ScopeTitlesPosts, recorded: true},
		{name: "titles scope", query: "concurrency", scope: domain.ScopeTitles, recorded: true},
		{name: "posts scope", query: "concurrency", scope: domain.ScopePosts, recorded: true},
		{name: "composer context", query: "concurrency", scope: domain.ScopeTitlesPosts, inComposer: true, recorded: false},
		{name: "short query", query: "ok", scope: domain.ScopeTitlesPosts, recorded: false},
		{name: "short after trim", query: "  ok  ", scope: domain.ScopeTitlesPosts, recorded: false},
		{name: "empty query", query: "", scope: domain.ScopeTitlesPosts, recorded: false},
		{name: "users scope", query: "concurrency", scope: domain.ScopeUsers, recorded: false},
		{name: "tags scope", query: "concurrency", scope: domain.ScopeTags, recorded: false},
		{name: "bookmarks scope", query: "concurrency", scope: domain.ScopeBookmarks, recorded: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeCounterStore()
			r := newTestRecorder(store)

			r.Record(1, tt.query, tt.scope, tt.inComposer)
			r.flush(1)

			got := store.total() == 1
			if got != tt.recorded {
				t.Errorf("recorded = %v, want %v (counts: %v)", got, tt.recorded, store.counts)
			}
		})
	}
}

func TestRecorderNormalizesQuery(t *testing.T) {
	store := newFakeCounterStore()
	r := newTestRecorder(store)

	r.Record(1, "  Event Loop  ", domain.ScopeTitlesPosts, false)
	r.flush(1)

	if got := store.count("event loop"); got != 1 {
		t.Errorf("normalized count = %d, want 1", got)
	}
}

func TestRecorderUsersAreIndependent(t *testing.T) {
	store := newFakeCounterStore()
	r := newTestRecorder(store)

	r.Record(1, "alpha query", domain.ScopeTitlesPosts, false)
	r.Record(2, "beta query", domain.ScopeTitlesPosts, false)

	r.flush(1)

	if got := store.count("alpha query"); got != 1 {
		t.Errorf("alpha query count = %d, want 1", got)
	}
	if got := store.count("beta query"); got != 0 {
		t.Errorf("beta query flushed early, count = %d, want 0", got)
	}

	r.mu.Lock()
	_, stillPending := r.pending[2]
	r.mu.Unlock()
	if !stillPending {
		t.Error("user 2 batch should still be pending after user 1 flush")
	}

	r.flush(2)
	if got := store.count("beta query"); got != 1 {
		t.Errorf("beta query count = %d, want 1", got)
	}
}

func TestRecorderBatchClearedAfterFlush(t *testing.T) {
	store := newFakeCounterStore()
	r := newTestRecorder(store)

	r.Record(1, "first query", domain.ScopeTitlesPosts, false)
	r.flush(1)
	r.flush(1) // second flush is a no-op

	if got := store.count("first query"); got != 1 {
		t.Errorf("first query count = %d, want 1", got)
	}

	// A new query after a flush starts a fresh batch.
	r.Record(1, "second query", domain.ScopeTitlesPosts, false)
	r.flush(1)
	if got := store.count("second query"); got != 1 {
		t.Errorf("second query count = %d, want 1", got)
	}
}

func TestRecorderDayBucket(t *testing.T) {
	store := newFakeCounterStore()
	r := newTestRecorder(store)

	fixed := time.Date(2026, time.March, 14, 15, 9, 26, 0, time.Local)
	r.now = func() time.Time { return fixed }

	r.Record(1, "pi day", domain.ScopeTitlesPosts, false)
	r.flush(1)

	want := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.Local)
	if got := store.days["pi day"]; !got.Equal(want) {
		t.Errorf("day bucket = %v, want %v", got, want)
	}
}

func TestRecorderDebounceTimerFires(t *testing.T) {
	store := newFakeCounterStore()
	r := NewRecorder(store, 20*time.Millisecond)

	r.Record(1, "cat", domain.ScopeTitlesPosts, false)
	r.Record(1, "catbox", domain.ScopeTitlesPosts, false)

	deadline := time.After(2 * time.Second)
	for store.count("catbox") != 1 {
		select {
		case <-deadline:
			t.Fatal("timer flush never happened")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if got := store.count("cat"); got != 0 {
		t.Errorf("cat count = %d, want 0", got)
	}
}

func TestCollapsePrefixes(t *testing.T) {
	tests := []struct {
		name    string
		queries []string
		want    []string
	}{
		{
			name:    "incremental typing",
			queries: []string{"c", "ca", "cat", "catb", "catbox"},
			want:    []string{"catbox"},
		},
		{
			name:    "independent queries survive",
			queries: []string{"a", "b"},
			want:    []string{"a", "b"},
		},
		{
			name:    "duplicates collapse",
			queries: []string{"golang", "golang"},
			want:    []string{"golang"},
		},
		{
			name:    "mixed",
			queries: []string{"go", "gophers", "go", "rust"},
			want:    []string{"gophers", "rust"},
		},
		{
			name:    "empty",
			queries: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collapsePrefixes(tt.queries)
			sort.Strings(got)
			want := append([]string{}, tt.want...)
			sort.Strings(want)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("collapsePrefixes(%v) = %v, want %v", tt.queries, got, want)
			}
		})
	}
}

func TestCleanQueryTruncates(t *testing.T) {
	long := make([]rune, 300)
	for i := range long {
		long[i] = 'x'
	}

	got := cleanQuery(string(long))
	if n := len([]rune(got)); n != 255 {
		t.Errorf("cleaned length = %d, want 255", n)
	}
}
