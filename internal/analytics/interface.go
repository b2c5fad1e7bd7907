package analytics

import (
	"context"
	"time"
)

// QueryCount is one entry of the search-frequency leaderboard.
type QueryCount struct {
	Query string  `json:"query"`
	Count float64 `json:"count"`
}

// CounterStore persists search-frequency counters. Each query has an
// all-time counter and one counter per calendar day.
type CounterStore interface {
	// IncrQueryCount atomically increments both counters for a query.
	// dayStart is local midnight of the day bucket.
	IncrQueryCount(ctx context.Context, query string, dayStart time.Time) error
	// TopAllTime returns the n most-searched queries of all time.
	TopAllTime(ctx context.Context, n int64) ([]QueryCount, error)
	// TopForDay returns the n most-searched queries of the day starting
	// at dayStart.
	TopForDay(ctx context.Context, dayStart time.Time, n int64) ([]QueryCount, error)
}
