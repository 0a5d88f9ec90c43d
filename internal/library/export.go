// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/notebook-md/pkg/types"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ExportEntry is one notebook in an export file.
type ExportEntry struct {
	ID             string `json:"id" yaml:"id"`
	SourcePath     string `json:"source_path" yaml:"source_path"`
	types.Notebook `yaml:",inline"`
}

// Export writes every stored notebook to w in the given format.
func (s *Store) Export(ctx context.Context, w io.Writer, format string) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format %q (must be %s or %s)", format, FormatYAML, FormatJSON)
	}
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	summaries, err := s.Notebooks(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]ExportEntry, 0, len(summaries))
	for _, sm := range summaries {
		nb, err := s.Notebook(ctx, sm.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ExportEntry{ID: sm.ID, SourcePath: sm.SourcePath, Notebook: nb})
	}
	return entries, nil
}
