package entry

import "time"

// Entry is a content entry resolved from the directory (immutable value object).
type Entry struct {
	id        int64
	className string
	classPK   int64
	groupID   int64
	companyID int64
	title     string
	viewCount int64
	modified  time.Time
}

// Reconstruct creates an Entry without validation (storage hydration).
func Reconstruct(
	id int64, className string, classPK, groupID, companyID int64,
	title string, viewCount int64, modified time.Time,
) Entry {
	return Entry{
		id: id, className: className, classPK: classPK,
		groupID: groupID, companyID: companyID,
		title: title, viewCount: viewCount, modified: modified,
	}
}

// ID returns the directory identifier of the entry.
func (e *Entry) ID() int64 { return e.id }

// ClassName returns the content type the entry belongs to.
func (e *Entry) ClassName() string { return e.className }

// ClassPK returns the reference id that links search hits to this entry.
func (e *Entry) ClassPK() int64 { return e.classPK }

// GroupID returns the scope the entry is published in.
func (e *Entry) GroupID() int64 { return e.groupID }

// CompanyID returns the owning company.
func (e *Entry) CompanyID() int64 { return e.companyID }

// Title returns the display title.
func (e *Entry) Title() string { return e.title }

// ViewCount returns the number of recorded views.
func (e *Entry) ViewCount() int64 { return e.viewCount }

// Modified returns the last modification time.
func (e *Entry) Modified() time.Time { return e.modified }
