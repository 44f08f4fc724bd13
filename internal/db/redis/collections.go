package redis

import (
	"context"
	"strconv"

	"github.com/kailas-cloud/segmentd/internal/db"
)

// LRange returns list elements between start and stop (inclusive, negative from the tail).
func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	cmd := s.b().Lrange().Key(key).Start(start).Stop(stop).Build()
	items, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpLRange, Err: err}
	}
	return items, nil
}

// ZRange returns sorted set members by rank. rev orders by descending score.
func (s *Store) ZRange(ctx context.Context, key string, start, stop int64, rev bool) ([]string, error) {
	zr := s.b().Zrange().Key(key).Min(strconv.FormatInt(start, 10)).Max(strconv.FormatInt(stop, 10))

	var items []string
	var err error
	if rev {
		items, err = s.do(ctx, zr.Rev().Build()).AsStrSlice()
	} else {
		items, err = s.do(ctx, zr.Build()).AsStrSlice()
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}
	return items, nil
}

// SCard returns the number of members in a set.
func (s *Store) SCard(ctx context.Context, key string) (int64, error) {
	cmd := s.b().Scard().Key(key).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpSCard, Err: err}
	}
	return n, nil
}
