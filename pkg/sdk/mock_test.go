package segmentd

import (
	"context"

	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	domsel "github.com/kailas-cloud/segmentd/internal/domain/selection"
	healthuc "github.com/kailas-cloud/segmentd/internal/usecase/health"
)

// --- selectionUseCase mock ---

type mockSelectionUC struct {
	selectFn    func(ctx context.Context, req domsel.Request) (domsel.Selection, error)
	topViewedFn func(ctx context.Context, asc bool, start, end int) ([]entry.Entry, error)
	countFn     func(ctx context.Context, companyID int64) (int, error)
}

func (m *mockSelectionUC) Select(ctx context.Context, req domsel.Request) (domsel.Selection, error) {
	return m.selectFn(ctx, req)
}

func (m *mockSelectionUC) TopViewed(ctx context.Context, asc bool, start, end int) ([]entry.Entry, error) {
	return m.topViewedFn(ctx, asc, start, end)
}

func (m *mockSelectionUC) CountEntries(ctx context.Context, companyID int64) (int, error) {
	return m.countFn(ctx, companyID)
}

func (m *mockSelectionUC) Label() string { return "Principal Banner" }

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}
