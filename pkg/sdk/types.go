package segmentd

import "time"

// Source tells which attempt produced a selection.
type Source string

// Source constants.
const (
	SourcePersonalized Source = "personalized"
	SourceGlobal       Source = "global"
)

// Entry is a selected content entry.
type Entry struct {
	ID        int64
	ClassName string
	ClassPK   int64
	GroupID   int64
	CompanyID int64
	Title     string
	ViewCount int64
	Modified  time.Time
}

// Selection is the result of Client.Select.
type Selection struct {
	Provider string
	Source   Source
	Entries  []Entry
}

// Fields names the indexed document fields.
type Fields struct {
	Scope       string
	ContentType string
	Category    string
	Modified    string
	Tags        string
	Reference   string
}

// SelectOption tunes a single Select call.
type SelectOption func(*selectParams)

type selectParams struct {
	viewerID    int64
	hasViewer   bool
	contentType string
}

// ForViewer personalizes the selection for a signed-in viewer.
func ForViewer(viewerID int64) SelectOption {
	return func(p *selectParams) {
		p.viewerID = viewerID
		p.hasViewer = true
	}
}

// OfType selects entries of className instead of the client default.
func OfType(className string) SelectOption {
	return func(p *selectParams) {
		p.contentType = className
	}
}
