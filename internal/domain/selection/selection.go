// Package selection holds the input and output of a content selection.
package selection

import (
	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/source"
)

// Request asks for the content to show a viewer in a group.
type Request struct {
	groupID     int64
	viewerID    int64
	hasViewer   bool
	contentType string
}

// NewRequest creates an anonymous request.
func NewRequest(groupID int64, contentType string) Request {
	return Request{groupID: groupID, contentType: contentType}
}

// WithViewer returns a copy of the request for a known viewer.
func (r Request) WithViewer(viewerID int64) Request {
	r.viewerID = viewerID
	r.hasViewer = true
	return r
}

// GroupID returns the scope the selection runs in.
func (r Request) GroupID() int64 { return r.groupID }

// ContentType returns the content type name to select.
func (r Request) ContentType() string { return r.contentType }

// Viewer returns the viewer id, if the request has one.
func (r Request) Viewer() (int64, bool) { return r.viewerID, r.hasViewer }

// Selection is the outcome of a selection: entries and the path that produced them.
type Selection struct {
	source  source.Source
	entries []entry.Entry
}

// New creates a Selection. A nil entries slice is stored as empty.
func New(src source.Source, entries []entry.Entry) Selection {
	if entries == nil {
		entries = []entry.Entry{}
	}
	return Selection{source: src, entries: entries}
}

// Source returns the path that produced the entries.
func (s Selection) Source() source.Source { return s.source }

// Entries returns the selected entries, most recently modified first.
func (s Selection) Entries() []entry.Entry { return s.entries }

// IsEmpty reports whether nothing was selected.
func (s Selection) IsEmpty() bool { return len(s.entries) == 0 }
