// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dom adapts an HTML query library to the small surface the
// notebook parser needs: select nodes by selector and read their text.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Node is one matched element.
type Node interface {
	// Text returns the element's text content with surrounding whitespace
	// removed.
	Text() string
}

// Document is a queryable markup tree.
type Document interface {
	// Select returns every node matching any of the selectors, in document
	// order. A node matched by several selectors appears once. Selectors that
	// match nothing contribute no nodes. Callers check selectors with
	// ValidateSelectors first; an invalid one may empty the whole result.
	Select(selectors ...string) []Node
}

var _ Document = (*HTMLDocument)(nil)

// ValidateSelectors reports the first selector that does not compile. Blank
// selectors are ignored, as Select ignores them.
func ValidateSelectors(selectors ...string) error {
	for _, s := range selectors {
		if strings.TrimSpace(s) == "" {
			continue
		}
		if _, err := cascadia.ParseGroup(s); err != nil {
			return fmt.Errorf("invalid selector %q: %w", s, err)
		}
	}
	return nil
}

// HTMLDocument is a Document backed by goquery.
type HTMLDocument struct {
	doc *goquery.Document
}

// Load parses HTML from r. The HTML parser recovers from malformed markup, so
// errors only come from reading r.
func Load(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return &HTMLDocument{doc: goquery.NewDocumentFromNode(root)}, nil
}

// Select implements Document. The selectors are combined into one CSS
// selector group so matches come back in a single document-order pass.
func (d *HTMLDocument) Select(selectors ...string) []Node {
	group := make([]string, 0, len(selectors))
	for _, s := range selectors {
		if s = strings.TrimSpace(s); s != "" {
			group = append(group, s)
		}
	}
	if len(group) == 0 {
		return nil
	}

	var nodes []Node
	d.doc.Find(strings.Join(group, ", ")).Each(func(_ int, sel *goquery.Selection) {
		nodes = append(nodes, selectionNode{sel: sel})
	})
	return nodes
}

type selectionNode struct {
	sel *goquery.Selection
}

func (n selectionNode) Text() string {
	return strings.TrimSpace(n.sel.Text())
}
