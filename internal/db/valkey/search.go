package valkey

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/kailas-cloud/segmentd/internal/db"
	"github.com/kailas-cloud/segmentd/internal/db/redis"
)

// Search runs a structured query via FT.SEARCH.
//
// valkey-search has no SORTBY, so the full match set is fetched with the sort
// field added to RETURN and ordered client-side before the page is cut.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}

	queryStr := redis.BuildQueryString(q.Query)

	counted, err := s.SearchRaw(ctx, q.IndexName, queryStr, "LIMIT", "0", "0", "DIALECT", "2")
	if err != nil {
		return nil, err
	}
	total := counted.Total
	if total == 0 || q.Limit <= 0 || q.Offset >= total {
		return &db.SearchResult{Total: total}, nil
	}

	fields := q.ReturnFields
	addedSort := q.SortBy != "" && len(fields) > 0 && !slices.Contains(fields, q.SortBy)
	if addedSort {
		fields = append(slices.Clone(fields), q.SortBy)
	}

	args := []string{q.IndexName, queryStr}
	if len(fields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(fields)))
		args = append(args, fields...)
	}
	args = append(args, "LIMIT", "0", strconv.Itoa(total), "DIALECT", "2")

	res, err := s.SearchRaw(ctx, args...)
	if err != nil {
		return nil, err
	}

	entries := res.Entries
	if q.SortBy != "" {
		sortEntries(entries, q.SortBy, q.SortDesc)
	}

	end := min(q.Offset+q.Limit, len(entries))
	if q.Offset >= end {
		entries = nil
	} else {
		entries = entries[q.Offset:end]
	}

	if addedSort {
		for i := range entries {
			delete(entries[i].Fields, q.SortBy)
		}
	}

	return &db.SearchResult{Total: total, Entries: entries}, nil
}

// sortEntries orders entries by a numeric field. Entries without a parseable
// value sort last; ties keep key order for a deterministic page.
func sortEntries(entries []db.SearchEntry, field string, desc bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		vi, okI := numericValue(entries[i], field)
		vj, okJ := numericValue(entries[j], field)
		switch {
		case okI && !okJ:
			return true
		case !okI && okJ:
			return false
		case !okI && !okJ, vi == vj:
			return entries[i].Key < entries[j].Key
		case desc:
			return vi > vj
		default:
			return vi < vj
		}
	})
}

func numericValue(e db.SearchEntry, field string) (float64, bool) {
	v, ok := e.Value(field)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
