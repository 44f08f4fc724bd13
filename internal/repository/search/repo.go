package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/segmentd/internal/db"
	"github.com/kailas-cloud/segmentd/internal/domain"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/hit"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/query"
	"github.com/kailas-cloud/segmentd/internal/logger"
)

// DefaultPageSize is the number of hits fetched per backend round-trip.
const DefaultPageSize = 500

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
}

// Config configures the executor.
type Config struct {
	Index    string
	PageSize int
	// TagSeparator splits multi-valued tag fields returned as one string.
	// Empty means each returned value is already a single tag.
	TagSeparator string
}

// Repo implements usecase/selection.Executor.
type Repo struct {
	store        store
	index        string
	pageSize     int
	tagSeparator string
}

// New creates a search repository.
func New(s store, cfg Config) *Repo {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Repo{
		store:        s,
		index:        cfg.Index,
		pageSize:     pageSize,
		tagSeparator: cfg.TagSeparator,
	}
}

// Execute runs q and returns every matching hit, most recently modified first.
//
// Pages are requested until the reported total is consumed. Backend failures
// are reported as domain.ErrSearchUnavailable; cancellation is returned as is.
// Hits without a parseable reference are skipped.
func (r *Repo) Execute(ctx context.Context, q query.Query) ([]hit.Hit, error) {
	refField := q.ReferenceField()
	tagField := ""
	if tags, ok := q.Tags(); ok {
		tagField = tags.Field()
	}

	var hits []hit.Hit
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sr, err := r.store.Search(ctx, &db.SearchQuery{
			IndexName:    r.index,
			Query:        q,
			ReturnFields: q.ReturnFields(),
			SortBy:       q.SortField(),
			SortDesc:     true,
			Offset:       offset,
			Limit:        r.pageSize,
		})
		if err != nil {
			if isContextErr(err) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
		}

		for _, e := range sr.Entries {
			h, ok := r.toHit(e, refField, tagField)
			if !ok {
				logger.FromContext(ctx).Warn("skipping hit without reference",
					zap.String("key", e.Key),
					zap.String("field", refField),
				)
				continue
			}
			hits = append(hits, h)
		}

		offset += len(sr.Entries)
		if len(sr.Entries) == 0 || offset >= sr.Total {
			break
		}
	}

	return hits, nil
}

func (r *Repo) toHit(e db.SearchEntry, refField, tagField string) (hit.Hit, bool) {
	raw, ok := e.Value(refField)
	if !ok {
		return hit.Hit{}, false
	}
	ref, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return hit.Hit{}, false
	}

	if tagField == "" {
		return hit.New(ref, nil), true
	}
	return hit.New(ref, r.splitTags(e.Values(tagField))), true
}

// splitTags breaks separator-joined tag values into names. Whitespace around
// a separator is dropped, as the TAG index does, so the exact re-check sees
// the same names the index matched on.
func (r *Repo) splitTags(values []string) []string {
	if r.tagSeparator == "" || len(values) == 0 {
		return values
	}
	var out []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, r.tagSeparator) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
