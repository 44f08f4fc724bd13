package query

import "fmt"

// Fields names the indexed document fields a Query refers to.
type Fields struct {
	Scope       string
	ContentType string
	Category    string
	Modified    string
	Tags        string
	Reference   string
}

// DefaultFields returns the field layout of a portal asset index.
func DefaultFields() Fields {
	return Fields{
		Scope:       "groupId",
		ContentType: "entryClassName",
		Category:    "assetCategoryTitles",
		Modified:    "modified",
		Tags:        "assetTagNames",
		Reference:   "entryClassPK",
	}
}

// Validate checks that every field is named.
func (f Fields) Validate() error {
	named := map[string]string{
		"scope":        f.Scope,
		"content_type": f.ContentType,
		"category":     f.Category,
		"modified":     f.Modified,
		"tags":         f.Tags,
		"reference":    f.Reference,
	}
	for k, v := range named {
		if v == "" {
			return fmt.Errorf("%s field name is required", k)
		}
	}
	return nil
}
