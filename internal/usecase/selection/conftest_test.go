package selection

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/segmentd/internal/domain"
	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/hit"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/query"
	"github.com/kailas-cloud/segmentd/internal/domain/tag"
)

const journal = "com.liferay.journal.model.JournalArticle"

var testNow = time.UnixMilli(1_700_000_000_000)

// mockExecutor implements Executor for tests.
type mockExecutor struct {
	executeFn func(ctx context.Context, q query.Query) ([]hit.Hit, error)
	queries   []query.Query
}

func (m *mockExecutor) Execute(ctx context.Context, q query.Query) ([]hit.Hit, error) {
	m.queries = append(m.queries, q)
	if m.executeFn != nil {
		return m.executeFn(ctx, q)
	}
	return nil, nil
}

// mockDirectory implements Directory for tests.
type mockDirectory struct {
	interestTagsFn     func(ctx context.Context, viewerID int64) ([]tag.Tag, error)
	fetchByReferenceFn func(ctx context.Context, className string, classPK int64) (entry.Entry, error)
	topViewedFn        func(ctx context.Context, asc bool, start, end int) ([]entry.Entry, error)
	countEntriesFn     func(ctx context.Context, companyID int64) (int, error)
	fetched            []int64
}

func (m *mockDirectory) InterestTags(ctx context.Context, viewerID int64) ([]tag.Tag, error) {
	if m.interestTagsFn != nil {
		return m.interestTagsFn(ctx, viewerID)
	}
	return nil, nil
}

func (m *mockDirectory) FetchByReference(ctx context.Context, className string, classPK int64) (entry.Entry, error) {
	m.fetched = append(m.fetched, classPK)
	if m.fetchByReferenceFn != nil {
		return m.fetchByReferenceFn(ctx, className, classPK)
	}
	return testEntry(classPK), nil
}

func (m *mockDirectory) TopViewed(ctx context.Context, asc bool, start, end int) ([]entry.Entry, error) {
	if m.topViewedFn != nil {
		return m.topViewedFn(ctx, asc, start, end)
	}
	return []entry.Entry{}, nil
}

func (m *mockDirectory) CountEntries(ctx context.Context, companyID int64) (int, error) {
	if m.countEntriesFn != nil {
		return m.countEntriesFn(ctx, companyID)
	}
	return 0, nil
}

func testEntry(classPK int64) entry.Entry {
	return entry.Reconstruct(classPK*100, journal, classPK, 20143, 10155, "Entry", 0, testNow)
}

func newTestService(t *testing.T) (*Service, *mockExecutor, *mockDirectory) {
	t.Helper()
	exec := &mockExecutor{}
	dir := &mockDirectory{}
	svc := New(exec, dir, query.NewBuilder(query.DefaultFields()),
		WithClock(ClockFunc(func() time.Time { return testNow })),
	)
	return svc, exec, dir
}

func classPKs(entries []entry.Entry) []int64 {
	out := make([]int64, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].ClassPK())
	}
	return out
}

func notFound(context.Context, string, int64) (entry.Entry, error) {
	return entry.Entry{}, domain.ErrNotFound
}
