package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/segmentd/internal/db"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/query"
)

// Search runs a structured query via FT.SEARCH with server-side SORTBY.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}

	args := []string{q.IndexName, BuildQueryString(q.Query)}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	if q.SortBy != "" {
		args = append(args, "SORTBY", q.SortBy)
		if q.SortDesc {
			args = append(args, "DESC")
		} else {
			args = append(args, "ASC")
		}
	}

	args = append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(max(0, q.Limit)),
		"DIALECT", "2",
	)

	return s.ftSearch(ctx, args)
}

// SearchRaw runs FT.SEARCH with caller-built arguments.
func (s *Store) SearchRaw(ctx context.Context, args ...string) (*db.SearchResult, error) {
	return s.ftSearch(ctx, args)
}

func (s *Store) ftSearch(ctx context.Context, args []string) (*db.SearchResult, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if IsRedisErr(err, "no such index") || IsRedisErr(err, "unknown index name") {
			return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("%w: %w", db.ErrIndexNotFound, err)}
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return ParseSearchReply(raw)
}

// BuildQueryString renders a selection query in RediSearch query syntax.
//
// Every clause is a conjunction term; the tag clause is a single tag group
// whose alternatives are joined with " | ".
func BuildQueryString(q query.Query) string {
	parts := []string{
		buildTagFilter(q.Scope().Field(), q.Scope().Value()),
		buildTagFilter(q.ContentType().Field(), q.ContentType().Value()),
		buildTagFilter(q.Category().Field(), q.Category().Value()),
		buildNumericFilter(q.Recency()),
	}

	if tags, ok := q.Tags(); ok {
		parts = append(parts, buildAnyOfFilter(tags))
	}

	return strings.Join(parts, " ")
}

// --- Result parsing ---

// ParseSearchReply decodes a RESP2 FT.SEARCH reply: [total, key1, fields1, key2, fields2, ...].
func ParseSearchReply(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/2)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string][]string {
	m := make(map[string][]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = append(m[name], value)
	}
	return m
}

// --- Filter building ---

func buildTagFilter(key, value string) string {
	return fmt.Sprintf("@%s:{%s}", key, tagEscaper.Replace(value))
}

func buildAnyOfFilter(a query.AnyOf) string {
	escaped := make([]string, 0, len(a.Values()))
	for _, v := range a.Values() {
		escaped = append(escaped, tagEscaper.Replace(v))
	}
	return fmt.Sprintf("@%s:{%s}", a.Field(), strings.Join(escaped, " | "))
}

func buildNumericFilter(r query.Range) string {
	return fmt.Sprintf("@%s:[%s %s]", r.Field(), r.FromString(), r.ToString())
}

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	"?", "\\?",
	" ", "\\ ",
)
