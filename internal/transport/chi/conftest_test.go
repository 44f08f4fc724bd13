package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	domsel "github.com/kailas-cloud/segmentd/internal/domain/selection"
	healthuc "github.com/kailas-cloud/segmentd/internal/usecase/health"
)

const journal = "com.liferay.journal.model.JournalArticle"

// mockSelector implements selector for tests.
type mockSelector struct {
	selectFn    func(ctx context.Context, req domsel.Request) (domsel.Selection, error)
	topViewedFn func(ctx context.Context, asc bool, start, end int) ([]entry.Entry, error)
	countFn     func(ctx context.Context, companyID int64) (int, error)
	requests    []domsel.Request
}

func (m *mockSelector) Select(ctx context.Context, req domsel.Request) (domsel.Selection, error) {
	m.requests = append(m.requests, req)
	if m.selectFn != nil {
		return m.selectFn(ctx, req)
	}
	return domsel.Selection{}, nil
}

func (m *mockSelector) TopViewed(ctx context.Context, asc bool, start, end int) ([]entry.Entry, error) {
	if m.topViewedFn != nil {
		return m.topViewedFn(ctx, asc, start, end)
	}
	return nil, nil
}

func (m *mockSelector) CountEntries(ctx context.Context, companyID int64) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, companyID)
	}
	return 0, nil
}

func (m *mockSelector) Label() string { return "Principal Banner" }

// mockHealth implements healthChecker for tests.
type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

func testEntry(classPK int64) entry.Entry {
	return entry.Reconstruct(classPK*100, journal, classPK, 20121, 10155, "Banner", 7,
		time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
}

func newTestRouter(sel selector, health healthChecker) http.Handler {
	if health == nil {
		health = &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}}
	}
	r := chi.NewRouter()
	NewServer(sel, health, journal, zap.NewNop()).Routes(r)
	return r
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}
