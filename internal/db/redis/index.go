package redis

import (
	"context"

	"github.com/kailas-cloud/segmentd/internal/db"
)

// CreateIndex issues FT.CREATE for def. An existing index is left untouched.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	cmd := s.b().Arbitrary("FT.CREATE").Args(def.Args()...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if IsRedisErr(err, "index already exists") {
			return nil
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}
