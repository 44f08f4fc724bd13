package hit

// Hit is a raw search result record: the entry reference and, when requested,
// the tag names stored on the indexed document.
type Hit struct {
	referenceID int64
	tagNames    []string
}

// New creates a Hit.
func New(referenceID int64, tagNames []string) Hit {
	return Hit{referenceID: referenceID, tagNames: tagNames}
}

// ReferenceID returns the entry reference (entryClassPK).
func (h Hit) ReferenceID() int64 { return h.referenceID }

// TagNames returns tag names stored on the document, in index order.
func (h Hit) TagNames() []string { return h.tagNames }

// HasAnyTag reports whether any of names equals one of the document tag names.
// Comparison is exact and case-sensitive: the index tokenizer normalizes
// whitespace inside multi-word tags, so its own match cannot be trusted.
func (h Hit) HasAnyTag(names []string) bool {
	for _, want := range names {
		for _, got := range h.tagNames {
			if got == want {
				return true
			}
		}
	}
	return false
}
