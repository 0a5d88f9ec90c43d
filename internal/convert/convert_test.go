// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/pdiddy/notebook-md/pkg/types"
)

const notebookHTML = `<html><body>
<div class="bookTitle">Republic</div>
<div class="authors">Plato</div>
<div class="noteHeading">Book I</div>
<div class="noteText">Justice is...</div>
<div class="noteHeading">Bookmark - Page 9</div>
</body></html>`

const notebookMarkdown = "# Republic, by Plato\n\n## Book I\n\nJustice is...\n"

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func newConverter(t *testing.T, mutate func(c *types.Config)) *Converter {
	t.Helper()
	cfg := types.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// writeNotebook creates name inside a temp dir and returns its path.
func writeNotebook(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(notebookHTML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvertFile(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *types.Config)
		wantFile string
	}{
		{"sanitize markdown", nil, "Republic.md"},
		{"sanitize txt", func(c *types.Config) { c.Output.Extension = ".txt" }, "Republic.txt"},
		{"preserve markdown", func(c *types.Config) { c.Output.Naming = types.NamingPreserve }, "Republic - Notebook.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := writeNotebook(t, dir, "Republic - Notebook.html")

			r := newConverter(t, tt.mutate).ConvertFile(context.Background(), in)

			if r.Err != nil {
				t.Fatalf("unexpected error: %v", r.Err)
			}
			if r.Status != types.ConversionDone {
				t.Errorf("status = %q, want %q", r.Status, types.ConversionDone)
			}
			want := filepath.Join(dir, tt.wantFile)
			if r.Output != want {
				t.Errorf("output = %q, want %q", r.Output, want)
			}
			data, err := os.ReadFile(want)
			if err != nil {
				t.Fatalf("reading output: %v", err)
			}
			if string(data) != notebookMarkdown {
				t.Errorf("markdown = %q, want %q", data, notebookMarkdown)
			}
		})
	}
}

func TestConvertFileDegradedExports(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "no authors element",
			html: `<div class="bookTitle">Anon</div><div class="noteHeading">H</div><div class="noteText">T</div>`,
			want: "# Anon, by \n\n## H\n\nT\n",
		},
		{
			name: "no highlights",
			html: `<div class="bookTitle">Republic</div><div class="authors">Plato</div>`,
			want: "# Republic, by Plato\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := filepath.Join(dir, "Book - Notebook.html")
			if err := os.WriteFile(in, []byte(tt.html), 0o644); err != nil {
				t.Fatal(err)
			}

			r := newConverter(t, nil).ConvertFile(context.Background(), in)
			if r.Err != nil {
				t.Fatalf("unexpected error: %v", r.Err)
			}
			data, err := os.ReadFile(filepath.Join(dir, "Book.md"))
			if err != nil {
				t.Fatalf("reading output: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("markdown = %q, want %q", data, tt.want)
			}
		})
	}
}

func TestConvertFileUnsupportedBeforeIO(t *testing.T) {
	// The path does not exist; rejection must come from the extension check.
	r := newConverter(t, nil).ConvertFile(context.Background(), "/x/Book.txt")

	if r.Status != types.ConversionUnsupported {
		t.Errorf("status = %q, want %q", r.Status, types.ConversionUnsupported)
	}
	if !errors.Is(r.Err, ErrUnsupportedFileType) {
		t.Errorf("err = %v, want ErrUnsupportedFileType", r.Err)
	}
	if r.Output != "" {
		t.Errorf("output = %q, want none", r.Output)
	}
}

func TestConvertFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Gone - Notebook.html")
	r := newConverter(t, nil).ConvertFile(context.Background(), path)

	if r.Status != types.ConversionFailed {
		t.Errorf("status = %q, want %q", r.Status, types.ConversionFailed)
	}
	if !errors.Is(r.Err, ErrFileNotFound) {
		t.Errorf("err = %v, want ErrFileNotFound", r.Err)
	}
}

func TestConvertFileWriteFailure(t *testing.T) {
	dir := t.TempDir()
	in := writeNotebook(t, dir, "Republic - Notebook.html")
	// A directory where the output file should go makes the write fail.
	if err := os.Mkdir(filepath.Join(dir, "Republic.md"), 0o755); err != nil {
		t.Fatal(err)
	}

	r := newConverter(t, nil).ConvertFile(context.Background(), in)

	if r.Status != types.ConversionFailed {
		t.Fatalf("status = %q, want %q", r.Status, types.ConversionFailed)
	}
	if !strings.Contains(r.Err.Error(), "writing") {
		t.Errorf("err = %v, want a writing error", r.Err)
	}
}

func TestConvertFileRefusesToOverwriteInput(t *testing.T) {
	dir := t.TempDir()
	in := writeNotebook(t, dir, "Republic.html")

	r := newConverter(t, func(c *types.Config) {
		c.Output.Naming = types.NamingPreserve
		c.Output.Extension = ".html"
	}).ConvertFile(context.Background(), in)

	if r.Status != types.ConversionFailed {
		t.Fatalf("status = %q, want %q", r.Status, types.ConversionFailed)
	}
	data, err := os.ReadFile(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != notebookHTML {
		t.Error("input file was modified")
	}
}

func TestConvertFileCancelled(t *testing.T) {
	in := writeNotebook(t, t.TempDir(), "Republic - Notebook.html")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newConverter(t, nil).ConvertFile(ctx, in)

	if !errors.Is(r.Err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", r.Err)
	}
}

func TestConvertPaths(t *testing.T) {
	dir := t.TempDir()
	good1 := writeNotebook(t, dir, "Alpha - Notebook.html")
	good2 := writeNotebook(t, dir, "Beta - Notebook.html")
	missing := filepath.Join(dir, "Missing - Notebook.html")
	unsupported := filepath.Join(dir, "Notes.txt")

	var out bytes.Buffer
	result := newConverter(t, nil).ConvertPaths(context.Background(),
		[]string{good1, missing, unsupported, good2}, &out)

	if result.Converted != 2 {
		t.Errorf("converted = %d, want 2", result.Converted)
	}
	if result.Failed != 1 {
		t.Errorf("failed = %d, want 1", result.Failed)
	}
	if result.Unsupported != 1 {
		t.Errorf("unsupported = %d, want 1", result.Unsupported)
	}
	if result.Total() != 4 {
		t.Errorf("total = %d, want 4", result.Total())
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d status lines, want 4:\n%s", len(lines), out.String())
	}
	for _, want := range []string{
		"✅ Alpha.md",
		"✅ Beta.md",
		"🚨 Missing - Notebook.html: file does not exist",
		`🙁 "Notes.txt" is not a supported filetype`,
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	for _, name := range []string{"Alpha.md", "Beta.md"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected output file %s: %v", name, err)
		}
	}
}

func TestConvertPathsManyFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := range 25 {
		paths = append(paths, writeNotebook(t, dir, fmt.Sprintf("Book %02d - Notebook.html", i)))
	}

	var out bytes.Buffer
	result := newConverter(t, func(c *types.Config) { c.Output.Concurrency = 3 }).
		ConvertPaths(context.Background(), paths, &out)

	if result.Converted != 25 || result.HasFailures() {
		t.Errorf("result = %+v, want 25 converted", result)
	}
	if got := strings.Count(out.String(), "\n"); got != 25 {
		t.Errorf("got %d status lines, want 25", got)
	}
}

func TestConvertPathsEmpty(t *testing.T) {
	var out bytes.Buffer
	result := newConverter(t, nil).ConvertPaths(context.Background(), nil, &out)

	if result.Total() != 0 {
		t.Errorf("total = %d, want 0", result.Total())
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.Output.Naming = "upper"
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for unknown naming strategy")
	}

	cfg = types.DefaultConfig()
	cfg.Parser.SkipPatterns = []string{"("}
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for bad skip pattern")
	}
}
