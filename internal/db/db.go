package db

import (
	"context"
	"time"
)

// Store is the search backend facade.
type Store interface {
	Pinger
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher runs structured queries against a search index.
type Searcher interface {
	Search(ctx context.Context, q *SearchQuery) (*SearchResult, error)
}

// HashStore provides hash-based reads.
type HashStore interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// ListStore provides ordered list reads.
type ListStore interface {
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// SortedSetStore provides rank-ordered reads.
type SortedSetStore interface {
	ZRange(ctx context.Context, key string, start, stop int64, rev bool) ([]string, error)
}

// SetStore provides set cardinality.
type SetStore interface {
	SCard(ctx context.Context, key string) (int64, error)
}
