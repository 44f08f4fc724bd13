package selection

import (
	"context"
	"time"

	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/hit"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/query"
	"github.com/kailas-cloud/segmentd/internal/domain/tag"
)

// Executor runs structured queries against the search index.
type Executor interface {
	Execute(ctx context.Context, q query.Query) ([]hit.Hit, error)
}

// TagLookup returns the interest tags of a viewer.
type TagLookup interface {
	InterestTags(ctx context.Context, viewerID int64) ([]tag.Tag, error)
}

// EntryLookup resolves a search hit reference to a directory entry.
type EntryLookup interface {
	FetchByReference(ctx context.Context, className string, classPK int64) (entry.Entry, error)
}

// TopViewedLister lists entries ranked by view count.
type TopViewedLister interface {
	TopViewed(ctx context.Context, asc bool, start, end int) ([]entry.Entry, error)
}

// EntryCounter counts entries owned by a company.
type EntryCounter interface {
	CountEntries(ctx context.Context, companyID int64) (int, error)
}

// Directory is the full set of directory reads the service needs.
type Directory interface {
	TagLookup
	EntryLookup
	TopViewedLister
	EntryCounter
}

// Clock supplies the selection time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)
