package db

import "github.com/kailas-cloud/segmentd/internal/domain/selection/query"

// SearchQuery is the input for a structured search.
type SearchQuery struct {
	IndexName    string
	Query        query.Query
	ReturnFields []string
	SortBy       string
	SortDesc     bool
	Offset       int
	Limit        int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string][]string
}

// Value returns the first value of a field.
func (e SearchEntry) Value(name string) (string, bool) {
	vs := e.Fields[name]
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Values returns every value of a field.
func (e SearchEntry) Values(name string) []string {
	return e.Fields[name]
}
