package db

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/segmentd/internal/domain/selection/query"
)

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("test-idx").
		Prefix("entry:").
		Tag("groupId").
		SortableNumeric("modified").
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name != "test-idx" {
		t.Errorf("name = %q, want test-idx", idx.Name)
	}
	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Name != "groupId" || idx.Fields[0].Type != IndexFieldTag {
		t.Errorf("field[0] = %+v, want groupId TAG", idx.Fields[0])
	}
	if idx.Fields[1].Name != "modified" || idx.Fields[1].Type != IndexFieldNumeric || !idx.Fields[1].Sortable {
		t.Errorf("field[1] = %+v, want modified NUMERIC SORTABLE", idx.Fields[1])
	}
}

func TestIndexBuilder_Field(t *testing.T) {
	idx := NewIndex("idx").Tag("a").Text("b").MustBuild()

	f, ok := idx.Field("b")
	if !ok {
		t.Fatal("expected field b")
	}
	if f.Type != IndexFieldText {
		t.Errorf("type = %v, want TEXT", f.Type)
	}
	if _, ok := idx.Field("missing"); ok {
		t.Error("unexpected field")
	}
}

func TestIndexBuilder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		builder *IndexBuilder
		errSub  string
	}{
		{"empty name", NewIndex("").Tag("a"), "name is required"},
		{"invalid name", NewIndex("bad name").Tag("a"), "invalid characters"},
		{"no fields", NewIndex("idx"), "at least one field"},
		{"duplicate field", NewIndex("idx").Tag("a").Numeric("a"), "duplicate field"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.builder.Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errSub) {
				t.Errorf("error = %q, want substring %q", err, tc.errSub)
			}
		})
	}
}

func TestIndexBuilder_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewIndex("").MustBuild()
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("segmentd:entries:idx").
		Prefix("segmentd:doc:").
		Tag("groupId").
		TagWithOpts("assetTagNames", ",", true).
		SortableNumeric("modified").
		Text("title").
		MustBuild()

	want := "FT.CREATE segmentd:entries:idx ON HASH PREFIX 1 segmentd:doc: SCHEMA " +
		"groupId TAG assetTagNames TAG SEPARATOR , CASESENSITIVE modified NUMERIC SORTABLE title TEXT"
	if got := idx.String(); got != want {
		t.Errorf("String() =\n%q\nwant\n%q", got, want)
	}
}

func TestSearchEntry_Values(t *testing.T) {
	e := SearchEntry{Fields: map[string][]string{
		"entryClassPK":  {"42"},
		"assetTagNames": {"News", "Sports"},
	}}

	v, ok := e.Value("entryClassPK")
	if !ok || v != "42" {
		t.Errorf("Value = %q, %v", v, ok)
	}
	if _, ok := e.Value("missing"); ok {
		t.Error("expected missing field")
	}
	if got := e.Values("assetTagNames"); len(got) != 2 {
		t.Errorf("Values = %v", got)
	}
}

func TestSelectionIndex_String(t *testing.T) {
	idx := SelectionIndex("assets", []string{"asset:"}, query.DefaultFields(), ",").MustBuild()

	want := "FT.CREATE assets ON HASH PREFIX 1 asset: SCHEMA " +
		"groupId TAG entryClassName TAG assetCategoryTitles TAG " +
		"modified NUMERIC SORTABLE " +
		"assetTagNames TAG SEPARATOR , CASESENSITIVE " +
		"entryClassPK NUMERIC"
	if got := idx.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}
