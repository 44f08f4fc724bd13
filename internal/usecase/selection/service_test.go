package selection

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/kailas-cloud/segmentd/internal/domain"
	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	domsel "github.com/kailas-cloud/segmentd/internal/domain/selection"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/hit"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/query"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/source"
	"github.com/kailas-cloud/segmentd/internal/domain/tag"
)

func viewerRequest() domsel.Request {
	return domsel.NewRequest(20143, journal).WithViewer(9)
}

func tagsOf(names ...string) func(context.Context, int64) ([]tag.Tag, error) {
	return func(context.Context, int64) ([]tag.Tag, error) {
		return tag.FromNames(names), nil
	}
}

// --- Scenarios ---

func TestSelect_PersonalizedRecheck(t *testing.T) {
	svc, exec, dir := newTestService(t)
	dir.interestTagsFn = tagsOf("News")
	exec.executeFn = func(_ context.Context, q query.Query) ([]hit.Hit, error) {
		if !q.HasTags() {
			t.Fatal("global search must not run when personalized yields entries")
		}
		return []hit.Hit{hit.New(10, []string{"News"}), hit.New(11, []string{"Sports"})}, nil
	}

	sel, err := svc.Select(context.Background(), viewerRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := classPKs(sel.Entries()); !slices.Equal(ids, []int64{10}) {
		t.Errorf("ids = %v", ids)
	}
	if sel.Source() != source.Personalized {
		t.Errorf("source = %s", sel.Source())
	}
	if len(exec.queries) != 1 {
		t.Errorf("expected 1 search, got %d", len(exec.queries))
	}
}

func TestSelect_NoTagsGoesGlobal(t *testing.T) {
	svc, exec, _ := newTestService(t)
	exec.executeFn = func(_ context.Context, q query.Query) ([]hit.Hit, error) {
		if q.HasTags() {
			t.Fatal("tag-filtered search must not run for a viewer without tags")
		}
		return []hit.Hit{hit.New(5, nil), hit.New(6, nil)}, nil
	}

	sel, err := svc.Select(context.Background(), viewerRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := classPKs(sel.Entries()); !slices.Equal(ids, []int64{5, 6}) {
		t.Errorf("ids = %v", ids)
	}
	if sel.Source() != source.Global {
		t.Errorf("source = %s", sel.Source())
	}
	if len(exec.queries) != 1 {
		t.Errorf("expected only the global search, got %d", len(exec.queries))
	}
}

func TestSelect_EmptyPersonalizedFallsBack(t *testing.T) {
	svc, exec, dir := newTestService(t)
	dir.interestTagsFn = tagsOf("News")
	exec.executeFn = func(_ context.Context, q query.Query) ([]hit.Hit, error) {
		if q.HasTags() {
			return nil, nil
		}
		return []hit.Hit{hit.New(7, nil)}, nil
	}

	sel, err := svc.Select(context.Background(), viewerRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := classPKs(sel.Entries()); !slices.Equal(ids, []int64{7}) {
		t.Errorf("ids = %v", ids)
	}
	if sel.Source() != source.Global {
		t.Errorf("source = %s", sel.Source())
	}
	if len(exec.queries) != 2 {
		t.Fatalf("expected 2 searches, got %d", len(exec.queries))
	}
	if exec.queries[0].CategoryLabel() != query.Segmented || exec.queries[1].CategoryLabel() != query.Global {
		t.Errorf("unexpected categories: %s, %s", exec.queries[0].CategoryLabel(), exec.queries[1].CategoryLabel())
	}
}

// --- Properties ---

func TestSelect_PersonalizedWinsVerbatim(t *testing.T) {
	svc, exec, dir := newTestService(t)
	dir.interestTagsFn = tagsOf("a", "b")
	exec.executeFn = func(_ context.Context, q query.Query) ([]hit.Hit, error) {
		if q.HasTags() {
			return []hit.Hit{hit.New(3, []string{"b"}), hit.New(1, []string{"a"}), hit.New(2, []string{"a", "b"})}, nil
		}
		return []hit.Hit{hit.New(99, nil)}, nil
	}

	sel, err := svc.Select(context.Background(), viewerRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := classPKs(sel.Entries()); !slices.Equal(ids, []int64{3, 1, 2}) {
		t.Errorf("ids = %v", ids)
	}
}

func TestSelect_RecheckDropsAllFallsBack(t *testing.T) {
	svc, exec, dir := newTestService(t)
	dir.interestTagsFn = tagsOf("Summer  Sale")
	exec.executeFn = func(_ context.Context, q query.Query) ([]hit.Hit, error) {
		if q.HasTags() {
			// the index matched on normalized whitespace
			return []hit.Hit{hit.New(1, []string{"Summer Sale"})}, nil
		}
		return []hit.Hit{hit.New(2, nil)}, nil
	}

	sel, err := svc.Select(context.Background(), viewerRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := classPKs(sel.Entries()); !slices.Equal(ids, []int64{2}) {
		t.Errorf("ids = %v", ids)
	}
}

func TestSelect_BlankTagsNeverSearchSegmented(t *testing.T) {
	svc, exec, dir := newTestService(t)
	dir.interestTagsFn = tagsOf("", "")

	if _, err := svc.Select(context.Background(), viewerRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exec.queries) != 1 || exec.queries[0].HasTags() {
		t.Errorf("expected a single global search, got %d queries", len(exec.queries))
	}
}

func TestSelect_AnonymousSkipsTagLookup(t *testing.T) {
	svc, exec, dir := newTestService(t)
	dir.interestTagsFn = func(context.Context, int64) ([]tag.Tag, error) {
		t.Fatal("tag lookup must not run without a viewer")
		return nil, nil
	}

	sel, err := svc.Select(context.Background(), domsel.NewRequest(20143, journal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Source() != source.Global || len(exec.queries) != 1 {
		t.Errorf("source=%s queries=%d", sel.Source(), len(exec.queries))
	}
}

func TestSelect_GlobalEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)

	sel, err := svc.Select(context.Background(), viewerRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Entries() == nil || !sel.IsEmpty() {
		t.Errorf("expected empty non-nil entries, got %v", sel.Entries())
	}
}

func TestSelect_SharesOneNow(t *testing.T) {
	exec := &mockExecutor{}
	dir := &mockDirectory{interestTagsFn: tagsOf("News")}
	calls := 0
	clock := ClockFunc(func() time.Time {
		calls++
		return testNow.Add(time.Duration(calls) * time.Hour)
	})
	svc := New(exec, dir, query.NewBuilder(query.DefaultFields()), WithClock(clock))

	if _, err := svc.Select(context.Background(), viewerRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("clock read %d times, want 1", calls)
	}
	if len(exec.queries) != 2 {
		t.Fatalf("expected 2 searches, got %d", len(exec.queries))
	}
	if exec.queries[0].Recency() != exec.queries[1].Recency() {
		t.Error("both attempts must use the same window")
	}
	want := testNow.Add(time.Hour).UnixMilli()
	if exec.queries[0].Recency().To() != want {
		t.Errorf("window end = %d, want %d", exec.queries[0].Recency().To(), want)
	}
}

func TestSelect_QueryShape(t *testing.T) {
	svc, exec, dir := newTestService(t)
	dir.interestTagsFn = tagsOf("News", "News", "Sports")

	if _, err := svc.Select(context.Background(), viewerRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := exec.queries[0]
	if q.Scope().Value() != "20143" || q.ContentType().Value() != journal {
		t.Errorf("scope=%s type=%s", q.Scope().Value(), q.ContentType().Value())
	}
	tags, _ := q.Tags()
	if !slices.Equal(tags.Values(), []string{"News", "Sports"}) {
		t.Errorf("tags = %v", tags.Values())
	}
}

// --- Errors ---

func TestSelect_TagLookupErrorDoesNotFallBack(t *testing.T) {
	svc, exec, dir := newTestService(t)
	dir.interestTagsFn = func(context.Context, int64) ([]tag.Tag, error) {
		return nil, errors.New("connection refused")
	}

	_, err := svc.Select(context.Background(), viewerRequest())
	if !errors.Is(err, domain.ErrDirectoryUnavailable) {
		t.Fatalf("expected ErrDirectoryUnavailable, got %v", err)
	}
	if len(exec.queries) != 0 {
		t.Errorf("no search may run after a tag lookup failure, got %d", len(exec.queries))
	}
}

func TestSelect_PersonalizedSearchErrorDoesNotFallBack(t *testing.T) {
	svc, exec, dir := newTestService(t)
	dir.interestTagsFn = tagsOf("News")
	exec.executeFn = func(context.Context, query.Query) ([]hit.Hit, error) {
		return nil, domain.ErrSearchUnavailable
	}

	_, err := svc.Select(context.Background(), viewerRequest())
	if !errors.Is(err, domain.ErrSearchUnavailable) {
		t.Fatalf("expected ErrSearchUnavailable, got %v", err)
	}
	if len(exec.queries) != 1 {
		t.Errorf("global search must not run after an error, got %d searches", len(exec.queries))
	}
}

func TestSelect_GlobalSearchError(t *testing.T) {
	svc, exec, _ := newTestService(t)
	exec.executeFn = func(context.Context, query.Query) ([]hit.Hit, error) {
		return nil, domain.ErrSearchUnavailable
	}

	if _, err := svc.Select(context.Background(), viewerRequest()); !errors.Is(err, domain.ErrSearchUnavailable) {
		t.Errorf("expected ErrSearchUnavailable, got %v", err)
	}
}

func TestSelect_CancelledDuringPersonalized(t *testing.T) {
	svc, exec, dir := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	dir.interestTagsFn = tagsOf("News")
	exec.executeFn = func(context.Context, query.Query) ([]hit.Hit, error) {
		cancel()
		return nil, nil
	}

	_, err := svc.Select(ctx, viewerRequest())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(exec.queries) != 1 {
		t.Errorf("cancelled selection must not reach the global attempt, got %d searches", len(exec.queries))
	}
}

func TestSelect_CancelledTagLookup(t *testing.T) {
	svc, exec, dir := newTestService(t)
	dir.interestTagsFn = func(ctx context.Context, _ int64) ([]tag.Tag, error) {
		return nil, context.DeadlineExceeded
	}

	_, err := svc.Select(context.Background(), viewerRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if errors.Is(err, domain.ErrDirectoryUnavailable) {
		t.Error("deadline must not be reported as unavailability")
	}
	if len(exec.queries) != 0 {
		t.Errorf("expected no searches, got %d", len(exec.queries))
	}
}

func TestSelect_MapErrorDoesNotFallBack(t *testing.T) {
	svc, exec, dir := newTestService(t)
	dir.interestTagsFn = tagsOf("News")
	dir.fetchByReferenceFn = func(context.Context, string, int64) (entry.Entry, error) {
		return entry.Entry{}, errors.New("timeout")
	}
	exec.executeFn = func(context.Context, query.Query) ([]hit.Hit, error) {
		return []hit.Hit{hit.New(1, []string{"News"})}, nil
	}

	_, err := svc.Select(context.Background(), viewerRequest())
	if !errors.Is(err, domain.ErrDirectoryUnavailable) {
		t.Fatalf("expected ErrDirectoryUnavailable, got %v", err)
	}
	if len(exec.queries) != 1 {
		t.Errorf("expected 1 search, got %d", len(exec.queries))
	}
}

func TestSelect_AllLookupsMissFallsBack(t *testing.T) {
	svc, exec, dir := newTestService(t)
	dir.interestTagsFn = tagsOf("News")
	exec.executeFn = func(_ context.Context, q query.Query) ([]hit.Hit, error) {
		if q.HasTags() {
			return []hit.Hit{hit.New(1, []string{"News"})}, nil
		}
		return nil, nil
	}
	dir.fetchByReferenceFn = notFound

	sel, err := svc.Select(context.Background(), viewerRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Source() != source.Global || len(exec.queries) != 2 {
		t.Errorf("source=%s queries=%d", sel.Source(), len(exec.queries))
	}
}

// --- Top viewed / count / label ---

func TestTopViewed(t *testing.T) {
	svc, _, dir := newTestService(t)
	dir.topViewedFn = func(_ context.Context, asc bool, start, end int) ([]entry.Entry, error) {
		if !asc || start != 0 || end != 5 {
			t.Errorf("asc=%v start=%d end=%d", asc, start, end)
		}
		return []entry.Entry{testEntry(1)}, nil
	}

	got, err := svc.TopViewed(context.Background(), true, 0, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d entries", len(got))
	}
}

func TestTopViewed_InvalidRange(t *testing.T) {
	svc, _, dir := newTestService(t)
	dir.topViewedFn = func(context.Context, bool, int, int) ([]entry.Entry, error) {
		t.Fatal("directory must not be called for an invalid range")
		return nil, nil
	}

	for _, r := range [][2]int{{-1, 5}, {5, 4}} {
		if _, err := svc.TopViewed(context.Background(), false, r[0], r[1]); !errors.Is(err, domain.ErrInvalidRange) {
			t.Errorf("range %v: expected ErrInvalidRange, got %v", r, err)
		}
	}
}

func TestCountEntries(t *testing.T) {
	svc, _, dir := newTestService(t)
	dir.countEntriesFn = func(_ context.Context, companyID int64) (int, error) {
		if companyID != 10155 {
			t.Errorf("companyID = %d", companyID)
		}
		return 4, nil
	}

	n, err := svc.CountEntries(context.Background(), 10155)
	if err != nil || n != 4 {
		t.Errorf("n=%d err=%v", n, err)
	}
}

func TestCountEntries_Error(t *testing.T) {
	svc, _, dir := newTestService(t)
	dir.countEntriesFn = func(context.Context, int64) (int, error) {
		return 0, domain.ErrDirectoryUnavailable
	}

	if _, err := svc.CountEntries(context.Background(), 1); !errors.Is(err, domain.ErrDirectoryUnavailable) {
		t.Errorf("expected ErrDirectoryUnavailable, got %v", err)
	}
}

func TestLabel(t *testing.T) {
	svc, _, _ := newTestService(t)
	if svc.Label() != DefaultLabel {
		t.Errorf("label = %s", svc.Label())
	}

	custom := New(&mockExecutor{}, &mockDirectory{}, query.NewBuilder(query.DefaultFields()), WithLabel("Hero"))
	if custom.Label() != "Hero" {
		t.Errorf("label = %s", custom.Label())
	}

	blank := New(&mockExecutor{}, &mockDirectory{}, query.NewBuilder(query.DefaultFields()), WithLabel(""))
	if blank.Label() != DefaultLabel {
		t.Errorf("blank label must keep default, got %s", blank.Label())
	}
}
