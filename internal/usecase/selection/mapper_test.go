package selection

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/segmentd/internal/domain"
	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/hit"
	"github.com/kailas-cloud/segmentd/internal/domain/tag"
)

func TestMap_NoRequiredTagsKeepsOrder(t *testing.T) {
	dir := &mockDirectory{}
	m := NewMapper(dir, journal)

	got, err := m.Map(context.Background(), []hit.Hit{hit.New(5, nil), hit.New(6, nil), hit.New(4, nil)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := classPKs(got); !slices.Equal(ids, []int64{5, 6, 4}) {
		t.Errorf("ids = %v", ids)
	}
}

func TestMap_EmptyInputIsEmptyNonNil(t *testing.T) {
	m := NewMapper(&mockDirectory{}, journal)

	got, err := m.Map(context.Background(), nil, tag.FromNames([]string{"News"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestMap_TagRecheckIsExact(t *testing.T) {
	hits := []hit.Hit{hit.New(1, []string{"Summer Sale"})}

	tests := []struct {
		name     string
		required string
		want     int
	}{
		{"exact", "Summer Sale", 1},
		{"double space", "Summer  Sale", 0},
		{"case differs", "summer sale", 0},
		{"prefix", "Summer", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := &mockDirectory{}
			m := NewMapper(dir, journal)

			got, err := m.Map(context.Background(), hits, tag.FromNames([]string{tc.required}))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tc.want {
				t.Errorf("got %d entries, want %d", len(got), tc.want)
			}
			if tc.want == 0 && len(dir.fetched) != 0 {
				t.Error("dropped hits must not be looked up")
			}
		})
	}
}

func TestMap_DeduplicatesReferences(t *testing.T) {
	dir := &mockDirectory{}
	m := NewMapper(dir, journal)

	hits := []hit.Hit{hit.New(3, nil), hit.New(1, nil), hit.New(3, nil), hit.New(2, nil), hit.New(1, nil)}
	got, err := m.Map(context.Background(), hits, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := classPKs(got); !slices.Equal(ids, []int64{3, 1, 2}) {
		t.Errorf("ids = %v", ids)
	}
	if !slices.Equal(dir.fetched, []int64{3, 1, 2}) {
		t.Errorf("each reference must be looked up once, got %v", dir.fetched)
	}
}

func TestMap_SkipsNotFound(t *testing.T) {
	dir := &mockDirectory{}
	dir.fetchByReferenceFn = func(_ context.Context, _ string, pk int64) (entry.Entry, error) {
		if pk == 2 {
			return entry.Entry{}, domain.ErrNotFound
		}
		return testEntry(pk), nil
	}
	m := NewMapper(dir, journal)

	got, err := m.Map(context.Background(), []hit.Hit{hit.New(1, nil), hit.New(2, nil), hit.New(3, nil)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := classPKs(got); !slices.Equal(ids, []int64{1, 3}) {
		t.Errorf("ids = %v", ids)
	}
}

func TestMap_LookupUsesContentType(t *testing.T) {
	dir := &mockDirectory{}
	dir.fetchByReferenceFn = func(_ context.Context, className string, pk int64) (entry.Entry, error) {
		if className != "com.liferay.blogs.model.BlogsEntry" {
			t.Errorf("className = %s", className)
		}
		return testEntry(pk), nil
	}
	m := NewMapper(dir, "com.liferay.blogs.model.BlogsEntry")

	if _, err := m.Map(context.Background(), []hit.Hit{hit.New(1, nil)}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMap_LookupFailure(t *testing.T) {
	dir := &mockDirectory{}
	dir.fetchByReferenceFn = func(context.Context, string, int64) (entry.Entry, error) {
		return entry.Entry{}, errors.New("connection reset")
	}
	m := NewMapper(dir, journal)

	_, err := m.Map(context.Background(), []hit.Hit{hit.New(1, nil)}, nil)
	if !errors.Is(err, domain.ErrDirectoryUnavailable) {
		t.Errorf("expected ErrDirectoryUnavailable, got %v", err)
	}
}

func TestMap_LookupCancelled(t *testing.T) {
	dir := &mockDirectory{}
	dir.fetchByReferenceFn = func(context.Context, string, int64) (entry.Entry, error) {
		return entry.Entry{}, context.Canceled
	}
	m := NewMapper(dir, journal)

	_, err := m.Map(context.Background(), []hit.Hit{hit.New(1, nil)}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, domain.ErrDirectoryUnavailable) {
		t.Error("cancellation must not be reported as unavailability")
	}
}
