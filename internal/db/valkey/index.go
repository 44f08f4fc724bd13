package valkey

import (
	"context"

	"github.com/kailas-cloud/segmentd/internal/db"
)

// CreateIndex issues FT.CREATE for def without SORTABLE, which valkey-search rejects.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	return s.Store.CreateIndex(ctx, unsortable(def)) //nolint:wrapcheck // already a db.Error
}

func unsortable(def *db.IndexDefinition) *db.IndexDefinition {
	out := *def
	out.Fields = make([]db.IndexField, len(def.Fields))
	for i, f := range def.Fields {
		f.Sortable = false
		out.Fields[i] = f
	}
	return &out
}
