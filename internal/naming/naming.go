// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package naming derives output paths from input notebook paths.
package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/notebook-md/pkg/types"
)

// notebookSuffix is appended to every file name by the Kindle notebook export.
const notebookSuffix = " - Notebook" + types.SourceExtension

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// Strategy maps an input path and output extension to an output path.
type Strategy func(path, ext string) string

// Preserve keeps the input name and swaps a trailing ".html" for ext.
func Preserve(path, ext string) string {
	if !strings.HasSuffix(path, types.SourceExtension) {
		return path
	}
	return strings.TrimSuffix(path, types.SourceExtension) + ext
}

// Sanitize drops the " - Notebook.html" export suffix, swaps in ext, and
// removes every character other than ASCII letters, digits, "_", "-" and "."
// from the file name. The directory part is left untouched.
func Sanitize(path, ext string) string {
	dir, name := filepath.Split(path)
	switch {
	case strings.HasSuffix(name, notebookSuffix):
		name = strings.TrimSuffix(name, notebookSuffix) + ext
	case strings.HasSuffix(name, types.SourceExtension):
		name = strings.TrimSuffix(name, types.SourceExtension) + ext
	}
	return dir + unsafeChars.ReplaceAllString(name, "")
}

// ForName returns the strategy registered under name.
func ForName(name string) (Strategy, error) {
	switch name {
	case types.NamingSanitize:
		return Sanitize, nil
	case types.NamingPreserve:
		return Preserve, nil
	default:
		return nil, fmt.Errorf("unknown naming strategy %q", name)
	}
}
