package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/segmentd/internal/app"
)

const loadBatchSize = 500

// documentIndexer is implemented by the embedded search backend.
type documentIndexer interface {
	IndexDocuments(docs map[string]map[string]any) error
}

func init() {
	loadCmd := &cobra.Command{
		Use:   "load FILE",
		Short: "Index a stream of JSON documents into the embedded bleve index",
		Long: "Each document is a JSON object with an \"id\" key and the schema fields.\n" +
			"Use \"-\" to read from stdin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := os.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}
			return withApp(cmd, func(a *app.App) error {
				idx, ok := a.Search.(documentIndexer)
				if !ok {
					return errors.New("load requires search.driver bleve; redis and valkey index their hashes")
				}
				n, err := runLoad(in, idx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(os.Stdout, "indexed %d documents\n", n)
				return nil
			})
		},
	}
	rootCmd.AddCommand(loadCmd)
}

// runLoad decodes concatenated JSON objects from r and indexes them in batches.
func runLoad(r io.Reader, idx documentIndexer) (int, error) {
	dec := json.NewDecoder(r)
	batch := make(map[string]map[string]any, loadBatchSize)
	total := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := idx.IndexDocuments(batch); err != nil {
			return fmt.Errorf("index batch: %w", err)
		}
		total += len(batch)
		batch = make(map[string]map[string]any, loadBatchSize)
		return nil
	}

	for line := 1; ; line++ {
		var doc map[string]any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, fmt.Errorf("document %d: %w", line, err)
		}

		id, ok := doc["id"].(string)
		if !ok || id == "" {
			return total, fmt.Errorf("document %d: \"id\" must be a non-empty string", line)
		}
		delete(doc, "id")
		batch[id] = doc

		if len(batch) >= loadBatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}

	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}
