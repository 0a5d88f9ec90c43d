// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model shared by the parser, renderer,
// orchestrator, and library packages.
package types

// Highlight is one heading and passage pair taken from a notebook export.
// Both fields are always set; a side missing from the source is "".
type Highlight struct {
	// Heading is the section or location label shown above the passage.
	Heading string `json:"heading" yaml:"heading"`

	// Text is the highlighted passage.
	Text string `json:"text" yaml:"text"`
}

// Notebook is the parsed form of one exported notebook document.
type Notebook struct {
	// Title is the book title, or "" when the export has none.
	Title string `json:"title" yaml:"title"`

	// Authors lists display names ("First Last") in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Highlights lists the heading/text pairs in document order.
	Highlights []Highlight `json:"highlights" yaml:"highlights"`
}

// ConversionStatus is the outcome of converting one input path.
type ConversionStatus string

const (
	ConversionDone        ConversionStatus = "converted"
	ConversionUnsupported ConversionStatus = "unsupported"
	ConversionFailed      ConversionStatus = "failed"
)
