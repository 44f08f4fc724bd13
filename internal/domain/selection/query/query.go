package query

import "strconv"

// Category is the editorial category that separates global from segmented content.
type Category string

// Categories.
const (
	// Global content is shown to every viewer of a group.
	Global Category = "global"
	// Segmented content is shown only to viewers whose interest tags match.
	Segmented Category = "segmented"
)

// Match is an exact-value clause on a single field.
type Match struct {
	field string
	value string
}

// Field returns the field name.
func (m Match) Field() string { return m.field }

// Value returns the literal to match.
func (m Match) Value() string { return m.value }

// Range is an inclusive epoch-millisecond range on a single field.
type Range struct {
	field string
	from  int64
	to    int64
}

// Field returns the field name.
func (r Range) Field() string { return r.field }

// From returns the inclusive lower bound in epoch milliseconds.
func (r Range) From() int64 { return r.from }

// To returns the inclusive upper bound in epoch milliseconds.
func (r Range) To() int64 { return r.to }

// FromString returns the lower bound encoded as a decimal string.
func (r Range) FromString() string { return strconv.FormatInt(r.from, 10) }

// ToString returns the upper bound encoded as a decimal string.
func (r Range) ToString() string { return strconv.FormatInt(r.to, 10) }

// AnyOf matches documents whose field contains any of the exact literals.
type AnyOf struct {
	field  string
	values []string
}

// Field returns the field name.
func (a AnyOf) Field() string { return a.field }

// Values returns the literals in request order.
func (a AnyOf) Values() []string { return a.values }

// Query is a conjunction of clauses: every present clause must match.
type Query struct {
	scope       Match
	contentType Match
	category    Match
	recency     Range
	tags        *AnyOf
	reference   string
}

// Scope returns the scope (group) clause.
func (q Query) Scope() Match { return q.scope }

// ContentType returns the content type clause.
func (q Query) ContentType() Match { return q.contentType }

// Category returns the category clause.
func (q Query) Category() Match { return q.category }

// CategoryLabel returns the category as a typed value.
func (q Query) CategoryLabel() Category { return Category(q.category.value) }

// Recency returns the modification window clause.
func (q Query) Recency() Range { return q.recency }

// Tags returns the tag disjunction clause, if present.
func (q Query) Tags() (AnyOf, bool) {
	if q.tags == nil {
		return AnyOf{}, false
	}
	return *q.tags, true
}

// HasTags reports whether the query carries a tag disjunction.
func (q Query) HasTags() bool { return q.tags != nil }

// ReferenceField names the field that links hits back to entries.
func (q Query) ReferenceField() string { return q.reference }

// SortField names the field results are ordered by, most recent first.
func (q Query) SortField() string { return q.recency.field }

// ReturnFields lists the fields a search must return for this query.
// The tag field is only requested when the query filters by tags.
func (q Query) ReturnFields() []string {
	if q.tags != nil {
		return []string{q.reference, q.tags.field}
	}
	return []string{q.reference}
}
