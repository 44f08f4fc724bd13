// Package bleve implements the search backend on an embedded bleve index.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/kailas-cloud/segmentd/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds the index location and schema.
type Config struct {
	// Path is the on-disk index directory. Empty means in-memory.
	Path       string
	Definition *db.IndexDefinition
}

// Store implements db.Store on top of a bleve index.
type Store struct {
	index bleve.Index
	def   *db.IndexDefinition
}

// NewStore opens the index at cfg.Path, creating it when missing.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Definition == nil {
		return nil, fmt.Errorf("index definition is required")
	}
	if err := cfg.Definition.Validate(); err != nil {
		return nil, fmt.Errorf("invalid index definition: %w", err)
	}

	m := buildIndexMapping(cfg.Definition)

	if cfg.Path == "" {
		idx, err := bleve.NewMemOnly(m)
		if err != nil {
			return nil, &db.Error{Op: db.OpBleveOpen, Err: err}
		}
		return &Store{index: idx, def: cfg.Definition}, nil
	}

	idx, err := bleve.Open(cfg.Path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		if mkErr := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); mkErr != nil {
			return nil, fmt.Errorf("create index directory: %w", mkErr)
		}
		idx, err = bleve.New(cfg.Path, m)
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpBleveOpen, Err: err}
	}

	return &Store{index: idx, def: cfg.Definition}, nil
}

// Ping checks that the index is open.
func (s *Store) Ping(_ context.Context) error {
	if _, err := s.index.DocCount(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the index.
func (s *Store) Close() {
	_ = s.index.Close()
}

// WaitForReady returns once the index answers, bounded by timeout.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Ping(ctx); err != nil {
		return err
	}
	return ctx.Err()
}

// IndexDocuments adds or replaces documents in one batch.
func (s *Store) IndexDocuments(docs map[string]map[string]any) error {
	batch := s.index.NewBatch()
	for id, doc := range docs {
		if err := batch.Index(id, doc); err != nil {
			return &db.Error{Op: db.OpBleveIndex, Err: fmt.Errorf("doc %s: %w", id, err)}
		}
	}
	if err := s.index.Batch(batch); err != nil {
		return &db.Error{Op: db.OpBleveIndex, Err: err}
	}
	return nil
}

// buildIndexMapping maps TAG fields to keyword terms, TEXT fields to the
// standard analyzer and NUMERIC fields to numeric terms. Every field is stored.
func buildIndexMapping(def *db.IndexDefinition) mapping.IndexMapping {
	doc := bleve.NewDocumentMapping()
	doc.Dynamic = false

	for i := range def.Fields {
		f := &def.Fields[i]

		var fm *mapping.FieldMapping
		switch f.Type {
		case db.IndexFieldNumeric:
			fm = bleve.NewNumericFieldMapping()
		case db.IndexFieldText:
			fm = bleve.NewTextFieldMapping()
			fm.Analyzer = standard.Name
		default:
			fm = bleve.NewKeywordFieldMapping()
			fm.Analyzer = keyword.Name
		}
		fm.Store = true
		fm.IncludeInAll = false
		doc.AddFieldMappingsAt(f.Name, fm)
	}

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	return im
}

// fieldStrings normalizes a stored field value into strings.
func fieldStrings(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case float64:
		return []string{strconv.FormatFloat(val, 'f', -1, 64)}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fieldStrings(item)...)
		}
		return out
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(val)}
	}
}
