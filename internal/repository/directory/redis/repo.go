package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/segmentd/internal/domain"
	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	"github.com/kailas-cloud/segmentd/internal/domain/tag"
	"github.com/kailas-cloud/segmentd/internal/logger"
)

// Entry hash fields.
const (
	fieldID        = "id"
	fieldClassName = "className"
	fieldClassPK   = "classPK"
	fieldGroupID   = "groupId"
	fieldCompanyID = "companyId"
	fieldTitle     = "title"
	fieldViewCount = "viewCount"
	fieldModified  = "modified"
)

// store is the consumer interface for directory reads (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZRange(ctx context.Context, key string, start, stop int64, rev bool) ([]string, error)
	SCard(ctx context.Context, key string) (int64, error)
}

// Repo is a key-value directory of entries and viewer interest tags.
//
// Layout under the prefix:
//
//	entry:<className>:<classPK>   hash of entry fields
//	viewer:<viewerID>:tags        list of tag names
//	views                         sorted set of "<className>:<classPK>" by view count
//	company:<companyID>:entries   set of entry members
type Repo struct {
	store  store
	prefix string
}

// New creates a directory repository. An empty prefix uses DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// InterestTags returns the viewer's interest tags in stored order.
func (r *Repo) InterestTags(ctx context.Context, viewerID int64) ([]tag.Tag, error) {
	key := r.viewerTagsKey(viewerID)
	names, err := r.store.LRange(ctx, key, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("%w: lrange %s: %w", domain.ErrDirectoryUnavailable, key, err)
	}
	return tag.FromNames(names), nil
}

// FetchByReference returns the entry of a content type by its reference id.
func (r *Repo) FetchByReference(ctx context.Context, className string, classPK int64) (entry.Entry, error) {
	key := r.entryKey(className, classPK)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: hgetall %s: %w", domain.ErrDirectoryUnavailable, key, err)
	}
	if len(m) == 0 {
		return entry.Entry{}, fmt.Errorf("entry %s: %w", key, domain.ErrNotFound)
	}

	e, err := parseEntry(m, className, classPK)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: decode %s: %w", domain.ErrDirectoryUnavailable, key, err)
	}
	return e, nil
}

// TopViewed returns entries ranked by view count in [start, end).
// Members without a stored entry are skipped.
func (r *Repo) TopViewed(ctx context.Context, asc bool, start, end int) ([]entry.Entry, error) {
	if end <= start {
		return []entry.Entry{}, nil
	}

	members, err := r.store.ZRange(ctx, r.viewsKey(), int64(start), int64(end-1), !asc)
	if err != nil {
		return nil, fmt.Errorf("%w: zrange views: %w", domain.ErrDirectoryUnavailable, err)
	}

	type ref struct {
		className string
		classPK   int64
	}
	refs := make([]ref, 0, len(members))
	keys := make([]string, 0, len(members))
	for _, m := range members {
		cn, pk, ok := parseViewMember(m)
		if !ok {
			logger.FromContext(ctx).Warn("skipping malformed views member", zap.String("member", m))
			continue
		}
		refs = append(refs, ref{className: cn, classPK: pk})
		keys = append(keys, r.entryKey(cn, pk))
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("%w: hgetall entries: %w", domain.ErrDirectoryUnavailable, err)
	}

	out := make([]entry.Entry, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue
		}
		e, err := parseEntry(m, refs[i].className, refs[i].classPK)
		if err != nil {
			return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrDirectoryUnavailable, keys[i], err)
		}
		out = append(out, e)
	}
	return out, nil
}

// CountEntries returns the number of entries owned by a company.
func (r *Repo) CountEntries(ctx context.Context, companyID int64) (int, error) {
	key := r.companyEntriesKey(companyID)
	n, err := r.store.SCard(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("%w: scard %s: %w", domain.ErrDirectoryUnavailable, key, err)
	}
	return int(n), nil
}

// parseEntry hydrates an entry from hash fields. className and classPK come
// from the key and are used when the hash omits them.
func parseEntry(m map[string]string, className string, classPK int64) (entry.Entry, error) {
	id, err := parseIntField(m, fieldID)
	if err != nil {
		return entry.Entry{}, err
	}
	if v, ok := m[fieldClassName]; ok && v != "" {
		className = v
	}
	if _, ok := m[fieldClassPK]; ok {
		if classPK, err = parseIntField(m, fieldClassPK); err != nil {
			return entry.Entry{}, err
		}
	}
	groupID, err := parseIntField(m, fieldGroupID)
	if err != nil {
		return entry.Entry{}, err
	}
	companyID, err := parseIntField(m, fieldCompanyID)
	if err != nil {
		return entry.Entry{}, err
	}
	viewCount, err := parseIntField(m, fieldViewCount)
	if err != nil {
		return entry.Entry{}, err
	}
	modifiedMs, err := parseIntField(m, fieldModified)
	if err != nil {
		return entry.Entry{}, err
	}

	var modified time.Time
	if modifiedMs > 0 {
		modified = time.UnixMilli(modifiedMs).UTC()
	}

	return entry.Reconstruct(id, className, classPK, groupID, companyID, m[fieldTitle], viewCount, modified), nil
}

// parseIntField parses an optional integer field; a missing field is zero.
func parseIntField(m map[string]string, name string) (int64, error) {
	v, ok := m[name]
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", name, err)
	}
	return n, nil
}
