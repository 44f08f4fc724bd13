package bleve

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	bq "github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/segmentd/internal/db"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/query"
)

// Search runs a selection query as a bleve conjunction.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if q.IndexName != "" && q.IndexName != s.def.Name {
		return nil, &db.Error{Op: db.OpBleveSearch, Err: fmt.Errorf("%w: %s", db.ErrIndexNotFound, q.IndexName)}
	}

	req := bleve.NewSearchRequestOptions(s.buildQuery(q.Query), max(0, q.Limit), q.Offset, false)
	if len(q.ReturnFields) > 0 {
		req.Fields = q.ReturnFields
	} else {
		req.Fields = []string{"*"}
	}
	if q.SortBy != "" {
		order := q.SortBy
		if q.SortDesc {
			order = "-" + order
		}
		req.SortBy([]string{order, "_id"})
	}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &db.Error{Op: db.OpBleveSearch, Err: err}
	}

	entries := make([]db.SearchEntry, 0, len(res.Hits))
	for _, h := range res.Hits {
		fields := make(map[string][]string, len(h.Fields))
		for name, v := range h.Fields {
			if vs := fieldStrings(v); len(vs) > 0 {
				fields[name] = vs
			}
		}
		entries = append(entries, db.SearchEntry{Key: h.ID, Fields: fields})
	}

	return &db.SearchResult{Total: int(res.Total), Entries: entries}, nil
}

func (s *Store) buildQuery(q query.Query) bq.Query {
	clauses := []bq.Query{
		term(q.Scope()),
		term(q.ContentType()),
		term(q.Category()),
		numericRange(q.Recency()),
	}

	if tags, ok := q.Tags(); ok {
		clauses = append(clauses, s.anyOf(tags))
	}

	return bleve.NewConjunctionQuery(clauses...)
}

func term(m query.Match) bq.Query {
	return termOn(m.Field(), m.Value())
}

func termOn(field, value string) bq.Query {
	t := bleve.NewTermQuery(value)
	t.SetField(field)
	return t
}

func numericRange(r query.Range) bq.Query {
	from, to := float64(r.From()), float64(r.To())
	inclusive := true
	nr := bleve.NewNumericRangeInclusiveQuery(&from, &to, &inclusive, &inclusive)
	nr.SetField(r.Field())
	return nr
}

// anyOf matches exact terms on TAG fields and analyzed phrases on TEXT fields.
func (s *Store) anyOf(a query.AnyOf) bq.Query {
	textual := false
	if f, ok := s.def.Field(a.Field()); ok && f.Type == db.IndexFieldText {
		textual = true
	}

	alts := make([]bq.Query, 0, len(a.Values()))
	for _, v := range a.Values() {
		if textual {
			p := bleve.NewMatchPhraseQuery(v)
			p.SetField(a.Field())
			alts = append(alts, p)
			continue
		}
		alts = append(alts, termOn(a.Field(), v))
	}
	return bleve.NewDisjunctionQuery(alts...)
}
