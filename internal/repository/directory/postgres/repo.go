package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/segmentd/internal/db"
	"github.com/kailas-cloud/segmentd/internal/domain"
	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	"github.com/kailas-cloud/segmentd/internal/domain/tag"
)

const entryColumns = `entry_id, class_name, class_pk, group_id, company_id,
	COALESCE(title, ''), view_count, modified_date`

const (
	selectInterestTags = `SELECT t.name
	FROM viewer_tag vt
	JOIN asset_tag t ON t.tag_id = vt.tag_id
	WHERE vt.viewer_id = $1
	ORDER BY vt.position, t.tag_id`

	selectEntryByReference = `SELECT ` + entryColumns + `
	FROM asset_entry
	WHERE class_name = $1 AND class_pk = $2`

	selectTopViewedDesc = `SELECT ` + entryColumns + `
	FROM asset_entry
	ORDER BY view_count DESC, entry_id
	LIMIT $1 OFFSET $2`

	selectTopViewedAsc = `SELECT ` + entryColumns + `
	FROM asset_entry
	ORDER BY view_count ASC, entry_id
	LIMIT $1 OFFSET $2`

	countCompanyEntries = `SELECT count(*) FROM asset_entry WHERE company_id = $1`
)

// querier is the consumer interface over a pgx pool (ISP).
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Repo is a relational directory of entries and viewer interest tags.
type Repo struct {
	q querier
}

// New creates a directory repository over a pool.
func New(q querier) *Repo {
	return &Repo{q: q}
}

// Ping checks database connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.q.Ping(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// InterestTags returns the viewer's interest tags in stored order.
func (r *Repo) InterestTags(ctx context.Context, viewerID int64) ([]tag.Tag, error) {
	rows, err := r.q.Query(ctx, selectInterestTags, viewerID)
	if err != nil {
		return nil, unavailable("select interest tags", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, unavailable("scan interest tag", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate interest tags", err)
	}
	return tag.FromNames(names), nil
}

// FetchByReference returns the entry of a content type by its reference id.
func (r *Repo) FetchByReference(ctx context.Context, className string, classPK int64) (entry.Entry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, selectEntryByReference, className, classPK))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entry.Entry{}, fmt.Errorf("entry %s:%d: %w", className, classPK, domain.ErrNotFound)
		}
		return entry.Entry{}, unavailable("select entry", err)
	}
	return e, nil
}

// TopViewed returns entries ranked by view count in [start, end).
func (r *Repo) TopViewed(ctx context.Context, asc bool, start, end int) ([]entry.Entry, error) {
	if end <= start {
		return []entry.Entry{}, nil
	}

	stmt := selectTopViewedDesc
	if asc {
		stmt = selectTopViewedAsc
	}

	rows, err := r.q.Query(ctx, stmt, end-start, start)
	if err != nil {
		return nil, unavailable("select top viewed", err)
	}
	defer rows.Close()

	out := make([]entry.Entry, 0, end-start)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, unavailable("scan entry", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate top viewed", err)
	}
	return out, nil
}

// CountEntries returns the number of entries owned by a company.
func (r *Repo) CountEntries(ctx context.Context, companyID int64) (int, error) {
	var n int64
	if err := r.q.QueryRow(ctx, countCompanyEntries, companyID).Scan(&n); err != nil {
		return 0, unavailable("count entries", err)
	}
	return int(n), nil
}

func scanEntry(row pgx.Row) (entry.Entry, error) {
	var (
		id, classPK, groupID, companyID, viewCount int64
		className, title                           string
		modified                                   time.Time
	)
	if err := row.Scan(&id, &className, &classPK, &groupID, &companyID, &title, &viewCount, &modified); err != nil {
		return entry.Entry{}, err
	}
	return entry.Reconstruct(id, className, classPK, groupID, companyID, title, viewCount, modified.UTC()), nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %w", domain.ErrDirectoryUnavailable, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("%s: %w", op, err)})
}
