package segmentd

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	domsel "github.com/kailas-cloud/segmentd/internal/domain/selection"
)

// Select returns the entries to show in groupID.
//
// With ForViewer, entries tagged with any of the viewer's interests win.
// Otherwise, or when none match, the group's global entries modified in the
// last 48 hours are returned.
func (c *Client) Select(ctx context.Context, groupID int64, opts ...SelectOption) (sel Selection, err error) {
	start := time.Now()
	defer func() { c.obs.observe("select", start, err) }()

	p := selectParams{contentType: c.contentType}
	for _, o := range opts {
		o(&p)
	}

	req := domsel.NewRequest(groupID, p.contentType)
	if p.hasViewer {
		req = req.WithViewer(p.viewerID)
	}

	res, err := c.selSvc.Select(ctx, req)
	if err != nil {
		return Selection{}, fmt.Errorf("select: %w", err)
	}

	sel = Selection{
		Provider: c.selSvc.Label(),
		Source:   Source(res.Source()),
		Entries:  entriesFromDomain(res.Entries()),
	}
	c.obs.selected(sel.Source, len(sel.Entries))
	return sel, nil
}

// TopViewed lists entries by view count within [start, end), most viewed first
// unless asc is set.
func (c *Client) TopViewed(ctx context.Context, asc bool, start, end int) (entries []Entry, err error) {
	began := time.Now()
	defer func() { c.obs.observe("top_viewed", began, err) }()

	res, err := c.selSvc.TopViewed(ctx, asc, start, end)
	if err != nil {
		return nil, fmt.Errorf("top viewed: %w", err)
	}
	return entriesFromDomain(res), nil
}

// CountEntries returns the number of entries owned by companyID.
func (c *Client) CountEntries(ctx context.Context, companyID int64) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("count_entries", start, err) }()

	n, err = c.selSvc.CountEntries(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func entriesFromDomain(in []entry.Entry) []Entry {
	out := make([]Entry, len(in))
	for i := range in {
		e := &in[i]
		out[i] = Entry{
			ID:        e.ID(),
			ClassName: e.ClassName(),
			ClassPK:   e.ClassPK(),
			GroupID:   e.GroupID(),
			CompanyID: e.CompanyID(),
			Title:     e.Title(),
			ViewCount: e.ViewCount(),
			Modified:  e.Modified(),
		}
	}
	return out
}
