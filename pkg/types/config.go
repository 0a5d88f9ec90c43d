// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Naming strategy names accepted by OutputConfig.Naming.
const (
	NamingSanitize = "sanitize"
	NamingPreserve = "preserve"
)

// SourceExtension is the only input extension the converter accepts.
const SourceExtension = ".html"

// ParserConfig tells the notebook parser where to find each part of an
// export. Selectors are CSS selectors handed to the document adapter.
type ParserConfig struct {
	// AuthorsSelector locates the element holding "Last, First; Last, First".
	AuthorsSelector string `json:"authors_selector" yaml:"authors_selector" mapstructure:"authors_selector"`

	// TitleSelector locates the element holding the book title.
	TitleSelector string `json:"title_selector" yaml:"title_selector" mapstructure:"title_selector"`

	// HighlightSelectors locate heading and text elements. Matches from all
	// selectors are merged in document order.
	HighlightSelectors []string `json:"highlight_selectors" yaml:"highlight_selectors" mapstructure:"highlight_selectors"`

	// SkipPatterns are regular expressions; a candidate whose whole trimmed
	// text matches any of them is dropped before pairing.
	SkipPatterns []string `json:"skip_patterns" yaml:"skip_patterns" mapstructure:"skip_patterns"`
}

// SkipRegexps compiles SkipPatterns anchored to the full text, so "Bookmark"
// matches "Bookmark" but not "A Bookmark here".
func (c ParserConfig) SkipRegexps() ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(c.SkipPatterns))
	for _, p := range c.SkipPatterns {
		re, err := regexp.Compile(`^(?:` + p + `)$`)
		if err != nil {
			return nil, fmt.Errorf("compiling skip pattern %q: %w", p, err)
		}
		res = append(res, re)
	}
	return res, nil
}

// OutputConfig controls where converted files go.
type OutputConfig struct {
	// Extension is appended to output files (".md" or ".txt").
	Extension string `json:"extension" yaml:"extension" mapstructure:"extension"`

	// Naming selects the output naming strategy: sanitize or preserve.
	Naming string `json:"naming" yaml:"naming" mapstructure:"naming"`

	// Concurrency bounds how many files are converted at once (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
}

// LibraryConfig holds settings for the highlight library.
type LibraryConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// Config groups all settings for a run. It is read-only once loaded.
type Config struct {
	Parser  ParserConfig  `json:"parser" yaml:"parser" mapstructure:"parser"`
	Output  OutputConfig  `json:"output" yaml:"output" mapstructure:"output"`
	Library LibraryConfig `json:"library" yaml:"library" mapstructure:"library"`
}

// DefaultConfig returns the settings for the Kindle notebook export format.
func DefaultConfig() Config {
	return Config{
		Parser: ParserConfig{
			AuthorsSelector:    ".authors",
			TitleSelector:      ".bookTitle",
			HighlightSelectors: []string{".noteHeading", ".noteText"},
			SkipPatterns:       []string{`^Bookmark.*$`},
		},
		Output: OutputConfig{
			Extension:   ".md",
			Naming:      NamingSanitize,
			Concurrency: 4,
		},
		Library: LibraryConfig{
			Path:       "notebooks.db",
			MaxResults: 20,
		},
	}
}

// Validate reports the first problem found in c.
func (c Config) Validate() error {
	if len(c.Parser.HighlightSelectors) == 0 {
		return errors.New("parser.highlight_selectors must not be empty")
	}
	for _, s := range c.Parser.HighlightSelectors {
		if strings.TrimSpace(s) == "" {
			return errors.New("parser.highlight_selectors contains an empty selector")
		}
	}
	if _, err := c.Parser.SkipRegexps(); err != nil {
		return err
	}
	if !strings.HasPrefix(c.Output.Extension, ".") || len(c.Output.Extension) < 2 {
		return fmt.Errorf("output.extension %q must start with a dot", c.Output.Extension)
	}
	switch c.Output.Naming {
	case NamingSanitize, NamingPreserve:
	default:
		return fmt.Errorf("output.naming %q must be %q or %q", c.Output.Naming, NamingSanitize, NamingPreserve)
	}
	if c.Output.Concurrency < 0 {
		return fmt.Errorf("output.concurrency must not be negative, got %d", c.Output.Concurrency)
	}
	return nil
}
