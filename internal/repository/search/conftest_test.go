package search

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/segmentd/internal/db"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/query"
	"github.com/kailas-cloud/segmentd/internal/domain/tag"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	calls    []db.SearchQuery
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	m.calls = append(m.calls, *q)
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T, cfg Config) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	if cfg.Index == "" {
		cfg.Index = "assets"
	}
	return New(ms, cfg), ms
}

var testNow = time.UnixMilli(1_700_000_000_000)

func segmented(names ...string) query.Query {
	return query.NewBuilder(query.DefaultFields()).
		Segmented(20143, "com.liferay.journal.model.JournalArticle", tag.FromNames(names), testNow)
}

func global() query.Query {
	return query.NewBuilder(query.DefaultFields()).
		Global(20143, "com.liferay.journal.model.JournalArticle", testNow)
}

func entry(pk string, tags ...string) db.SearchEntry {
	fields := map[string][]string{"entryClassPK": {pk}}
	if len(tags) > 0 {
		fields["assetTagNames"] = tags
	}
	return db.SearchEntry{Key: "asset:" + pk, Fields: fields}
}
