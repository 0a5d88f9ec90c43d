// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert reads notebook exports from disk, renders them to
// markdown, and writes the result next to the source file. Each input path
// is handled on its own: a failure is reported and the batch moves on.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/notebook-md/internal/naming"
	"github.com/pdiddy/notebook-md/internal/notebook"
	"github.com/pdiddy/notebook-md/internal/render"
	"github.com/pdiddy/notebook-md/pkg/types"
)

const defaultConcurrency = 4

var (
	// ErrUnsupportedFileType is returned for inputs without the .html extension.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrFileNotFound is returned when an input path does not exist.
	ErrFileNotFound = errors.New("file does not exist")
)

// Result is the outcome of converting one input path.
type Result struct {
	Input  string
	Output string
	Status types.ConversionStatus
	Err    error
}

func (r Result) fail(err error) Result {
	r.Status = types.ConversionFailed
	r.Err = err
	return r
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted   int
	Unsupported int
	Failed      int
}

// Total returns the number of paths processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Unsupported + r.Failed
}

// HasFailures reports whether any path failed or was rejected.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0 || r.Unsupported > 0
}

// Converter turns notebook exports into markdown files. Its configuration is
// fixed at construction, so one Converter may serve concurrent calls.
type Converter struct {
	parser      *notebook.Parser
	name        naming.Strategy
	ext         string
	concurrency int
	log         *slog.Logger
}

// New builds a Converter from cfg. A nil logger discards diagnostics.
func New(cfg types.Config, log *slog.Logger) (*Converter, error) {
	parser, err := notebook.NewParser(cfg.Parser)
	if err != nil {
		return nil, err
	}
	name, err := naming.ForName(cfg.Output.Naming)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	concurrency := cfg.Output.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Converter{
		parser:      parser,
		name:        name,
		ext:         cfg.Output.Extension,
		concurrency: concurrency,
		log:         log,
	}, nil
}

// ConvertFile converts the notebook at path and writes the markdown to the
// path chosen by the naming strategy. Paths without the .html extension are
// rejected before touching the filesystem.
func (c *Converter) ConvertFile(ctx context.Context, path string) Result {
	r := Result{Input: path}

	if filepath.Ext(path) != types.SourceExtension {
		r.Status = types.ConversionUnsupported
		r.Err = fmt.Errorf("%w: %q", ErrUnsupportedFileType, filepath.Ext(path))
		return r
	}
	r.Output = c.name(path, c.ext)
	if r.Output == path {
		return r.fail(fmt.Errorf("output path %s would overwrite the input", path))
	}

	if err := ctx.Err(); err != nil {
		return r.fail(err)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return r.fail(ErrFileNotFound)
		}
		return r.fail(fmt.Errorf("checking %s: %w", path, err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return r.fail(fmt.Errorf("reading %s: %w", path, err))
	}

	nb, err := c.parser.ParseHTML(bytes.NewReader(data))
	if err != nil {
		return r.fail(err)
	}
	c.log.Debug("parsed notebook", "path", path, "title", nb.Title,
		"authors", len(nb.Authors), "highlights", len(nb.Highlights))

	if err := os.WriteFile(r.Output, []byte(render.ToMarkdown(nb)), 0o644); err != nil {
		return r.fail(fmt.Errorf("writing %s: %w", r.Output, err))
	}

	r.Status = types.ConversionDone
	return r
}

// ConvertPaths converts every path, running up to the configured number of
// conversions at once. One status line per path is written to w as each
// conversion finishes, so line order may differ from path order.
func (c *Converter) ConvertPaths(ctx context.Context, paths []string, w io.Writer) BatchResult {
	results := make(chan Result, len(paths))

	go func() {
		var g errgroup.Group
		g.SetLimit(c.concurrency)
		for _, p := range paths {
			g.Go(func() error {
				results <- c.ConvertFile(ctx, p)
				return nil
			})
		}
		g.Wait()
		close(results)
	}()

	var batch BatchResult
	for r := range results {
		Report(w, r)
		switch r.Status {
		case types.ConversionDone:
			batch.Converted++
		case types.ConversionUnsupported:
			batch.Unsupported++
		default:
			batch.Failed++
		}
		if r.Err != nil {
			c.log.Debug("conversion failed", "path", r.Input, "status", r.Status, "error", r.Err)
		}
	}

	c.log.Info("batch complete", "converted", batch.Converted, "unsupported", batch.Unsupported,
		"failed", batch.Failed, "total", batch.Total())
	return batch
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
)

// Report writes the one-line status for r to w.
func Report(w io.Writer, r Result) {
	switch r.Status {
	case types.ConversionDone:
		okColor.Fprintf(w, "✅ %s\n", filepath.Base(r.Output))
	case types.ConversionUnsupported:
		warnColor.Fprintf(w, "🙁 %q is not a supported filetype\n", filepath.Base(r.Input))
	default:
		errColor.Fprintf(w, "🚨 %s: %v\n", filepath.Base(r.Input), r.Err)
	}
}
