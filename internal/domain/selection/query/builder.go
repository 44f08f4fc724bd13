package query

import (
	"strconv"
	"time"

	"github.com/kailas-cloud/segmentd/internal/domain/tag"
)

// RecencyWindow is the lookback of every selection query.
const RecencyWindow = 48 * time.Hour

// Builder translates selection parameters into a Query.
type Builder struct {
	fields Fields
}

// NewBuilder creates a Builder over the given field layout.
func NewBuilder(fields Fields) *Builder {
	return &Builder{fields: fields}
}

// Fields returns the field layout queries are built against.
func (b *Builder) Fields() Fields { return b.fields }

// Build creates a Query for a scope, content type and category.
//
// The window is [now-RecencyWindow, now], both bounds derived from now.
// A Segmented category adds an any-of clause over tag names; empty names and
// repeats are dropped, and if nothing remains the query is Global. A Global
// category never carries tags.
func (b *Builder) Build(
	scopeID int64, contentType string, category Category, tags []tag.Tag, now time.Time,
) Query {
	to := now.UnixMilli()
	from := to - RecencyWindow.Milliseconds()

	q := Query{
		scope:       Match{field: b.fields.Scope, value: strconv.FormatInt(scopeID, 10)},
		contentType: Match{field: b.fields.ContentType, value: contentType},
		recency:     Range{field: b.fields.Modified, from: from, to: to},
		reference:   b.fields.Reference,
	}

	var names []string
	if category == Segmented {
		names = distinctNames(tags)
	}

	if len(names) == 0 {
		q.category = Match{field: b.fields.Category, value: string(Global)}
		return q
	}

	q.category = Match{field: b.fields.Category, value: string(Segmented)}
	q.tags = &AnyOf{field: b.fields.Tags, values: names}
	return q
}

// Global creates an untagged query.
func (b *Builder) Global(scopeID int64, contentType string, now time.Time) Query {
	return b.Build(scopeID, contentType, Global, nil, now)
}

// Segmented creates a query filtered by any of the given tags.
func (b *Builder) Segmented(scopeID int64, contentType string, tags []tag.Tag, now time.Time) Query {
	return b.Build(scopeID, contentType, Segmented, tags, now)
}

func distinctNames(tags []tag.Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		n := t.Name()
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	return names
}
