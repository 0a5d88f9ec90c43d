// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/notebook-md/internal/notebook"
	"github.com/pdiddy/notebook-md/pkg/types"
)

// IngestSummary holds counts from a library import run.
type IngestSummary struct {
	Added   int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of paths processed.
func (s IngestSummary) Total() int {
	return s.Added + s.Updated + s.Skipped + s.Failed
}

// Ingest parses each notebook export in paths and adds it to the store,
// writing one status line per path to w. A failing path is counted and the
// run continues.
func (s *Store) Ingest(ctx context.Context, parser *notebook.Parser, paths []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := filepath.Base(path)
		if filepath.Ext(path) != types.SourceExtension {
			fmt.Fprintf(w, "failed  %s: not a supported filetype\n", name)
			summary.Failed++
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		nb, err := parser.ParseHTML(bytes.NewReader(data))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		status, err := s.Add(ctx, path, nb)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		switch status {
		case StatusAdded:
			fmt.Fprintf(w, "added   %s (%d highlights)\n", NotebookID(path), len(nb.Highlights))
			summary.Added++
		case StatusUpdated:
			fmt.Fprintf(w, "updated %s (%d highlights)\n", NotebookID(path), len(nb.Highlights))
			summary.Updated++
		case StatusSkipped:
			fmt.Fprintf(w, "skipped %s\n", NotebookID(path))
			summary.Skipped++
		}
	}

	fmt.Fprintf(w, "\nadded: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Added, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}
