// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns a parsed notebook into a markdown document.
package render

import (
	"strings"

	"github.com/pdiddy/notebook-md/pkg/types"
)

// ToMarkdown renders nb as:
//
//	# Title, by Author and Author
//
//	## Heading
//
//	Text
//
// The header line and its blank line are always written, even with no
// authors or no highlights. Heading and text are written verbatim; markdown
// characters in the source are not escaped.
func ToMarkdown(nb types.Notebook) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(nb.Title)
	sb.WriteString(", by ")
	sb.WriteString(strings.Join(nb.Authors, " and "))
	sb.WriteString("\n\n")

	for i, h := range nb.Highlights {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("## ")
		sb.WriteString(h.Heading)
		sb.WriteString("\n\n")
		sb.WriteString(h.Text)
		sb.WriteString("\n")
	}

	return sb.String()
}
