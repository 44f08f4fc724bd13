package redis

import (
	"context"
	"testing"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	lrangeFn       func(ctx context.Context, key string, start, stop int64) ([]string, error)
	zrangeFn       func(ctx context.Context, key string, start, stop int64, rev bool) ([]string, error)
	scardFn        func(ctx context.Context, key string) (int64, error)
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if m.lrangeFn != nil {
		return m.lrangeFn(ctx, key, start, stop)
	}
	return nil, nil
}

func (m *mockStore) ZRange(ctx context.Context, key string, start, stop int64, rev bool) ([]string, error) {
	if m.zrangeFn != nil {
		return m.zrangeFn(ctx, key, start, stop, rev)
	}
	return nil, nil
}

func (m *mockStore) SCard(ctx context.Context, key string) (int64, error) {
	if m.scardFn != nil {
		return m.scardFn(ctx, key)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "test:"), ms
}

func entryHash(id, pk string) map[string]string {
	return map[string]string{
		"id":        id,
		"classPK":   pk,
		"groupId":   "20143",
		"companyId": "10155",
		"title":     "Entry " + pk,
		"viewCount": "3",
		"modified":  "1700000000000",
	}
}
