package tag

// Tag is an interest tag attached to a viewer.
type Tag struct {
	name string
}

// New creates a Tag. The name is kept verbatim: matching is exact and case-sensitive.
func New(name string) Tag {
	return Tag{name: name}
}

// Name returns the tag name.
func (t Tag) Name() string { return t.name }

// Names extracts tag names preserving order.
func Names(tags []Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.name
	}
	return out
}

// FromNames builds tags from raw names preserving order.
func FromNames(names []string) []Tag {
	if len(names) == 0 {
		return nil
	}
	out := make([]Tag, len(names))
	for i, n := range names {
		out[i] = Tag{name: n}
	}
	return out
}
