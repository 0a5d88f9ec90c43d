// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notebook extracts the title, authors, and highlights from an
// exported e-reader notebook.
package notebook

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/notebook-md/internal/dom"
	"github.com/pdiddy/notebook-md/pkg/types"
)

const (
	authorSeparator = "; "
	nameSeparator   = ", "
)

// Parser turns queryable documents into Notebooks. It is safe for
// concurrent use; its configuration never changes after NewParser.
type Parser struct {
	cfg  types.ParserConfig
	skip []*regexp.Regexp
}

// NewParser checks the selectors and compiles the skip patterns in cfg.
func NewParser(cfg types.ParserConfig) (*Parser, error) {
	selectors := append([]string{cfg.AuthorsSelector, cfg.TitleSelector}, cfg.HighlightSelectors...)
	if err := dom.ValidateSelectors(selectors...); err != nil {
		return nil, err
	}
	skip, err := cfg.SkipRegexps()
	if err != nil {
		return nil, err
	}
	return &Parser{cfg: cfg, skip: skip}, nil
}

// Parse extracts a Notebook from doc. Missing elements give empty fields,
// never an error.
func (p *Parser) Parse(doc dom.Document) types.Notebook {
	return types.Notebook{
		Title:      firstText(doc, p.cfg.TitleSelector),
		Authors:    ParseAuthors(firstText(doc, p.cfg.AuthorsSelector)),
		Highlights: Pair(p.candidates(doc)),
	}
}

// ParseHTML loads r as HTML and parses it.
func (p *Parser) ParseHTML(r io.Reader) (types.Notebook, error) {
	doc, err := dom.Load(r)
	if err != nil {
		return types.Notebook{}, fmt.Errorf("loading notebook: %w", err)
	}
	return p.Parse(doc), nil
}

// candidates returns the trimmed text of every highlight-bearing node that
// no skip pattern matches, in document order.
func (p *Parser) candidates(doc dom.Document) []string {
	nodes := doc.Select(p.cfg.HighlightSelectors...)
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		text := n.Text()
		if p.skipped(text) {
			continue
		}
		out = append(out, text)
	}
	return out
}

func (p *Parser) skipped(text string) bool {
	for _, re := range p.skip {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// ParseAuthors turns "Last, First; Last, First" into ["First Last", ...].
// A token without a comma is kept as-is. Blank input gives no authors.
func ParseAuthors(list string) []string {
	if strings.TrimSpace(list) == "" {
		return []string{}
	}
	tokens := strings.Split(list, authorSeparator)
	authors := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		parts := strings.SplitN(strings.TrimSpace(tok), nameSeparator, 2)
		last, first := parts[0], ""
		if len(parts) > 1 {
			first = parts[1]
		}
		authors = append(authors, strings.TrimSpace(first+" "+last))
	}
	return authors
}

// Pair groups texts two at a time into heading/text Highlights. An odd
// trailing entry becomes a heading with empty text.
func Pair(texts []string) []types.Highlight {
	highlights := make([]types.Highlight, 0, (len(texts)+1)/2)
	for i := 0; i < len(texts); i += 2 {
		h := types.Highlight{Heading: strings.TrimSpace(texts[i])}
		if i+1 < len(texts) {
			h.Text = strings.TrimSpace(texts[i+1])
		}
		highlights = append(highlights, h)
	}
	return highlights
}

func firstText(doc dom.Document, selector string) string {
	nodes := doc.Select(selector)
	if len(nodes) == 0 {
		return ""
	}
	return nodes[0].Text()
}
