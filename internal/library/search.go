// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for library searches.
type QueryOptions struct {
	// Query is an FTS4 full-text query over highlight headings and text.
	Query string

	// NotebookID restricts results to one notebook.
	NotebookID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return strings.TrimSpace(q.Query) == "" && q.NotebookID == ""
}

// SearchResult is one matching highlight with its notebook metadata.
type SearchResult struct {
	NotebookID string   `json:"notebook_id" yaml:"notebook_id"`
	Title      string   `json:"title" yaml:"title"`
	Authors    []string `json:"authors" yaml:"authors"`
	Position   int      `json:"position" yaml:"position"`
	Heading    string   `json:"heading" yaml:"heading"`
	Text       string   `json:"text" yaml:"text"`
}

// Search finds highlights matching opts. Results are ordered by notebook
// title, then by position within the notebook.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]SearchResult, error) {
	if opts.IsEmpty() {
		return nil, fmt.Errorf("query or notebook filter required")
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)

	if strings.TrimSpace(opts.Query) != "" {
		qb.WriteString(
			`SELECT h.notebook_id, n.title, n.authors, h.position, h.heading, h.text
			FROM highlights_fts
			JOIN highlights h ON h.id = highlights_fts.docid
			JOIN notebooks n ON n.id = h.notebook_id
			WHERE highlights_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT h.notebook_id, n.title, n.authors, h.position, h.heading, h.text
			FROM highlights h
			JOIN notebooks n ON n.id = h.notebook_id
			WHERE 1=1`)
	}

	if opts.NotebookID != "" {
		qb.WriteString(` AND h.notebook_id = ?`)
		args = append(args, opts.NotebookID)
	}

	qb.WriteString(` ORDER BY n.title, h.notebook_id, h.position LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching library: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			r           SearchResult
			authorsJSON string
		)
		if err := rows.Scan(&r.NotebookID, &r.Title, &authorsJSON, &r.Position, &r.Heading, &r.Text); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if r.Authors, err = decodeAuthors(authorsJSON); err != nil {
			return nil, fmt.Errorf("notebook %s: %w", r.NotebookID, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
