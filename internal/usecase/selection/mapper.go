package selection

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/segmentd/internal/domain"
	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/hit"
	"github.com/kailas-cloud/segmentd/internal/domain/tag"
	"github.com/kailas-cloud/segmentd/internal/logger"
	"github.com/kailas-cloud/segmentd/internal/metrics"
)

// Mapper turns search hits of one content type into directory entries.
type Mapper struct {
	lookup    EntryLookup
	className string
}

// NewMapper creates a mapper resolving hits as entries of className.
func NewMapper(lookup EntryLookup, className string) *Mapper {
	return &Mapper{lookup: lookup, className: className}
}

// Map resolves hits to entries in hit order.
//
// With required tags, a hit is kept only if one of its tag names equals one of
// the required names exactly. Repeated references keep their first occurrence.
// Entries missing from the directory are skipped. The result is never nil.
func (m *Mapper) Map(ctx context.Context, hits []hit.Hit, requiredTags []tag.Tag) ([]entry.Entry, error) {
	out := make([]entry.Entry, 0, len(hits))
	if len(hits) == 0 {
		return out, nil
	}

	required := tag.Names(requiredTags)
	seen := make(map[int64]struct{}, len(hits))
	log := logger.FromContext(ctx)

	for _, h := range hits {
		if len(required) > 0 && !h.HasAnyTag(required) {
			metrics.TagRecheckDroppedTotal.Inc()
			log.Debug("hit dropped by tag re-check",
				zap.Int64("class_pk", h.ReferenceID()),
				zap.Strings("tags", h.TagNames()),
			)
			continue
		}

		ref := h.ReferenceID()
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}

		e, err := m.lookup.FetchByReference(ctx, m.className, ref)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				metrics.EntryLookupMissesTotal.Inc()
				log.Debug("entry not found for hit", zap.Int64("class_pk", ref))
				continue
			}
			return nil, lookupError(ref, err)
		}
		out = append(out, e)
	}

	return out, nil
}

func lookupError(ref int64, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, domain.ErrDirectoryUnavailable) {
		return fmt.Errorf("fetch entry %d: %w", ref, err)
	}
	return fmt.Errorf("%w: fetch entry %d: %w", domain.ErrDirectoryUnavailable, ref, err)
}
