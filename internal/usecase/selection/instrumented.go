package selection

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/segmentd/internal/domain/selection/hit"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/query"
	"github.com/kailas-cloud/segmentd/internal/metrics"
)

// InstrumentedExecutor wraps Executor with duration metrics and logging.
type InstrumentedExecutor struct {
	inner  Executor
	logger *zap.Logger
}

// NewInstrumentedExecutor wraps an executor with observability.
func NewInstrumentedExecutor(inner Executor, logger *zap.Logger) *InstrumentedExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedExecutor{inner: inner, logger: logger}
}

// Execute delegates to the inner executor and records its duration by category.
func (e *InstrumentedExecutor) Execute(ctx context.Context, q query.Query) ([]hit.Hit, error) {
	start := time.Now()

	hits, err := e.inner.Execute(ctx, q)

	duration := time.Since(start)
	category := string(q.CategoryLabel())
	status := "ok"
	if err != nil {
		status = "error"
		if isContextErr(err) {
			status = "canceled"
		}
	}
	metrics.SearchDuration.WithLabelValues(category, status).Observe(duration.Seconds())

	if err != nil {
		e.logger.Warn("Search failed",
			zap.String("category", category),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	e.logger.Debug("Search completed",
		zap.String("category", category),
		zap.Int("hits", len(hits)),
		zap.Duration("duration", duration),
	)
	return hits, nil
}
