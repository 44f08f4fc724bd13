package db

import "github.com/kailas-cloud/segmentd/internal/domain/selection/query"

// SelectionIndex describes the asset index that selection queries run against.
// The tag field is case-sensitive so backends keep tag literals intact.
func SelectionIndex(name string, prefixes []string, f query.Fields, tagSeparator string) *IndexBuilder {
	return NewIndex(name).
		Prefix(prefixes...).
		Tag(f.Scope).
		Tag(f.ContentType).
		Tag(f.Category).
		SortableNumeric(f.Modified).
		TagWithOpts(f.Tags, tagSeparator, true).
		Numeric(f.Reference)
}
