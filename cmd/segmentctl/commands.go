package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/segmentd/internal/app"
	"github.com/kailas-cloud/segmentd/internal/db"
	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	domsel "github.com/kailas-cloud/segmentd/internal/domain/selection"
	pgdir "github.com/kailas-cloud/segmentd/internal/repository/directory/postgres"
)

// selector is the slice of the selection service the commands use.
type selector interface {
	Select(ctx context.Context, req domsel.Request) (domsel.Selection, error)
	TopViewed(ctx context.Context, asc bool, start, end int) ([]entry.Entry, error)
	CountEntries(ctx context.Context, companyID int64) (int, error)
	Label() string
}

type entryOut struct {
	ClassName string `json:"class_name"`
	ClassPK   int64  `json:"class_pk"`
	GroupID   int64  `json:"group_id"`
	Title     string `json:"title"`
	ViewCount int64  `json:"view_count"`
	Modified  string `json:"modified"`
}

func init() {
	// select
	var viewerID int64
	var contentType string
	selectCmd := &cobra.Command{
		Use:   "select GROUP_ID",
		Short: "Run a selection for a group, optionally for a viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var groupID int64
			if _, err := fmt.Sscan(args[0], &groupID); err != nil {
				return fmt.Errorf("GROUP_ID must be an integer: %w", err)
			}
			hasViewer := cmd.Flags().Changed("viewer")
			return withApp(cmd, func(a *app.App) error {
				ct := contentType
				if ct == "" {
					ct = a.DefaultContentType
				}
				return runSelect(cmd.Context(), a.Selection, groupID, ct, viewerID, hasViewer, os.Stdout)
			})
		},
	}
	selectCmd.Flags().Int64VarP(&viewerID, "viewer", "v", 0, "Viewer ID whose interest tags personalize the selection")
	selectCmd.Flags().StringVarP(&contentType, "type", "t", "", "Content type class name (defaults to selection.content_type)")
	rootCmd.AddCommand(selectCmd)

	// top-viewed
	var start, end int
	var asc bool
	topCmd := &cobra.Command{
		Use:   "top-viewed",
		Short: "List entries by view count",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				return runTopViewed(cmd.Context(), a.Selection, asc, start, end, os.Stdout)
			})
		},
	}
	topCmd.Flags().IntVarP(&start, "start", "s", 0, "First rank (inclusive)")
	topCmd.Flags().IntVarP(&end, "end", "n", 20, "Last rank (exclusive)")
	topCmd.Flags().BoolVar(&asc, "asc", false, "Least viewed first")
	rootCmd.AddCommand(topCmd)

	// count
	countCmd := &cobra.Command{
		Use:   "count COMPANY_ID",
		Short: "Count entries owned by a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var companyID int64
			if _, err := fmt.Sscan(args[0], &companyID); err != nil {
				return fmt.Errorf("COMPANY_ID must be an integer: %w", err)
			}
			return withApp(cmd, func(a *app.App) error {
				return runCount(cmd.Context(), a.Selection, companyID, os.Stdout)
			})
		},
	}
	rootCmd.AddCommand(countCmd)

	// health
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Ping the search backend and the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				report := a.Health.Check(cmd.Context())
				return writeJSON(os.Stdout, map[string]any{"status": report.Status, "checks": report.Checks})
			})
		},
	}
	rootCmd.AddCommand(healthCmd)

	// schema
	var apply bool
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the search index command and the directory DDL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apply {
				return withApp(cmd, func(a *app.App) error {
					created, err := a.EnsureIndex(cmd.Context())
					if err != nil {
						return err //nolint:wrapcheck // already wrapped by app
					}
					if !created {
						_, _ = fmt.Fprintln(os.Stdout, "index is managed by the backend, nothing to create")
						return nil
					}
					_, _ = fmt.Fprintf(os.Stdout, "index %s ready\n", a.Index.Name)
					return nil
				})
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			def, err := db.SelectionIndex(cfg.Search.Index, cfg.Search.Prefixes,
				cfg.Schema.Fields(), cfg.Search.TagSeparator).Build()
			if err != nil {
				return fmt.Errorf("build index definition: %w", err)
			}
			return runSchema(def, cfg.Directory.Driver, os.Stdout)
		},
	}
	schemaCmd.Flags().BoolVar(&apply, "apply", false, "Create the search index instead of printing it")
	rootCmd.AddCommand(schemaCmd)
}

func runSelect(
	ctx context.Context, sel selector, groupID int64, contentType string,
	viewerID int64, hasViewer bool, w io.Writer,
) error {
	req := domsel.NewRequest(groupID, contentType)
	if hasViewer {
		req = req.WithViewer(viewerID)
	}

	res, err := sel.Select(ctx, req)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}

	return writeJSON(w, map[string]any{
		"provider": sel.Label(),
		"source":   res.Source(),
		"entries":  toOut(res.Entries()),
	})
}

func runTopViewed(ctx context.Context, sel selector, asc bool, start, end int, w io.Writer) error {
	entries, err := sel.TopViewed(ctx, asc, start, end)
	if err != nil {
		return fmt.Errorf("top viewed: %w", err)
	}
	return writeJSON(w, map[string]any{"entries": toOut(entries)})
}

func runCount(ctx context.Context, sel selector, companyID int64, w io.Writer) error {
	n, err := sel.CountEntries(ctx, companyID)
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}
	return writeJSON(w, map[string]any{"company_id": companyID, "count": n})
}

func runSchema(def *db.IndexDefinition, directoryDriver string, w io.Writer) error {
	if _, err := fmt.Fprintln(w, def.String()); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if directoryDriver == "postgres" {
		if _, err := fmt.Fprintf(w, "\n%s", pgdir.Schema); err != nil {
			return fmt.Errorf("write ddl: %w", err)
		}
	}
	return nil
}

func toOut(entries []entry.Entry) []entryOut {
	out := make([]entryOut, len(entries))
	for i := range entries {
		e := &entries[i]
		out[i] = entryOut{
			ClassName: e.ClassName(),
			ClassPK:   e.ClassPK(),
			GroupID:   e.GroupID(),
			Title:     e.Title(),
			ViewCount: e.ViewCount(),
			Modified:  e.Modified().UTC().Format(time.RFC3339),
		}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
