package selection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/segmentd/internal/domain"
	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	domsel "github.com/kailas-cloud/segmentd/internal/domain/selection"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/query"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/source"
	"github.com/kailas-cloud/segmentd/internal/domain/tag"
	"github.com/kailas-cloud/segmentd/internal/logger"
	"github.com/kailas-cloud/segmentd/internal/metrics"
)

// DefaultLabel is the provider label shown to editors.
const DefaultLabel = "Principal Banner"

// Service selects content for a viewer: personalized first, global as fallback.
type Service struct {
	exec    Executor
	dir     Directory
	builder *query.Builder
	clock   Clock
	label   string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLabel overrides the provider label.
func WithLabel(label string) Option {
	return func(s *Service) {
		if label != "" {
			s.label = label
		}
	}
}

// New creates a selection service.
func New(exec Executor, dir Directory, builder *query.Builder, opts ...Option) *Service {
	s := &Service{
		exec:    exec,
		dir:     dir,
		builder: builder,
		clock:   SystemClock,
		label:   DefaultLabel,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Label returns the provider label.
func (s *Service) Label() string { return s.label }

// Select returns the entries to show for req.
//
// A viewer with interest tags gets the segmented entries matching any of them.
// If that yields nothing, or there is no viewer, the global entries are
// returned. The two attempts share one captured time and are never merged.
// Any error ends the selection; it never falls through to the global attempt.
func (s *Service) Select(ctx context.Context, req domsel.Request) (domsel.Selection, error) {
	now := s.clock.Now()
	mapper := NewMapper(s.dir, req.ContentType())
	ctx = logger.With(ctx,
		zap.Int64("group_id", req.GroupID()),
		zap.String("content_type", req.ContentType()),
	)
	log := logger.FromContext(ctx)

	if viewerID, ok := req.Viewer(); ok {
		entries, err := s.personalized(ctx, mapper, req, viewerID, now)
		if err != nil {
			return domsel.Selection{}, err
		}
		if len(entries) > 0 {
			log.Debug("personalized selection", zap.Int64("viewer_id", viewerID), zap.Int("entries", len(entries)))
			metrics.SelectionTotal.WithLabelValues(string(source.Personalized)).Inc()
			return domsel.New(source.Personalized, entries), nil
		}
	}

	if err := ctx.Err(); err != nil {
		return domsel.Selection{}, err
	}

	q := s.builder.Global(req.GroupID(), req.ContentType(), now)
	hits, err := s.exec.Execute(ctx, q)
	if err != nil {
		return domsel.Selection{}, fmt.Errorf("global search: %w", err)
	}

	entries, err := mapper.Map(ctx, hits, nil)
	if err != nil {
		return domsel.Selection{}, fmt.Errorf("map global hits: %w", err)
	}

	log.Debug("global selection", zap.Int("entries", len(entries)))
	metrics.SelectionTotal.WithLabelValues(string(source.Global)).Inc()
	return domsel.New(source.Global, entries), nil
}

func (s *Service) personalized(
	ctx context.Context, mapper *Mapper, req domsel.Request, viewerID int64, now time.Time,
) ([]entry.Entry, error) {
	tags, err := s.dir.InterestTags(ctx, viewerID)
	if err != nil {
		if errors.Is(err, domain.ErrDirectoryUnavailable) || isContextErr(err) {
			return nil, fmt.Errorf("interest tags: %w", err)
		}
		return nil, fmt.Errorf("%w: interest tags: %w", domain.ErrDirectoryUnavailable, err)
	}

	q := s.builder.Segmented(req.GroupID(), req.ContentType(), tags, now)
	anyOf, ok := q.Tags()
	if !ok {
		return nil, nil
	}

	hits, err := s.exec.Execute(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("segmented search: %w", err)
	}

	entries, err := mapper.Map(ctx, hits, tag.FromNames(anyOf.Values()))
	if err != nil {
		return nil, fmt.Errorf("map segmented hits: %w", err)
	}
	return entries, nil
}

// TopViewed lists entries ranked by view count within [start, end).
func (s *Service) TopViewed(ctx context.Context, asc bool, start, end int) ([]entry.Entry, error) {
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: start=%d end=%d", domain.ErrInvalidRange, start, end)
	}
	entries, err := s.dir.TopViewed(ctx, asc, start, end)
	if err != nil {
		return nil, fmt.Errorf("top viewed: %w", err)
	}
	return entries, nil
}

// CountEntries returns the number of entries owned by a company.
func (s *Service) CountEntries(ctx context.Context, companyID int64) (int, error) {
	n, err := s.dir.CountEntries(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
