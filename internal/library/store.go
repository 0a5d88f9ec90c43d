// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library keeps parsed notebooks in a SQLite database so highlights
// can be searched across books and exported in bulk.
package library

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/notebook-md/internal/naming"
	"github.com/pdiddy/notebook-md/pkg/types"
)

// ErrNotFound is returned when a notebook ID is not in the library.
var ErrNotFound = errors.New("notebook not found")

// AddStatus reports what Add did with a notebook.
type AddStatus string

const (
	StatusAdded   AddStatus = "added"
	StatusUpdated AddStatus = "updated"
	StatusSkipped AddStatus = "skipped"
)

// Store manages the library SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the library database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.LibraryConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating library directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS notebooks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors TEXT NOT NULL,
			source_path TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			imported_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS highlights (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			notebook_id TEXT NOT NULL REFERENCES notebooks(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			heading TEXT NOT NULL,
			text TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_highlights_notebook ON highlights(notebook_id, position)`,
		// docid mirrors highlights.id; rows are kept in sync by Add.
		`CREATE VIRTUAL TABLE IF NOT EXISTS highlights_fts USING fts4(heading, text)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// NotebookID derives the library key from a source path: the sanitized file
// name without extension, e.g. "Republic" for "Republic - Notebook.html".
func NotebookID(sourcePath string) string {
	_, name := filepath.Split(naming.Sanitize(sourcePath, ""))
	return name
}

// ContentHash returns a hex digest identifying the notebook's content.
func ContentHash(nb types.Notebook) string {
	data, _ := json.Marshal(nb)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Add stores nb under the ID derived from sourcePath. A notebook whose content
// is unchanged since the last Add is skipped; a changed one has its
// highlights replaced.
func (s *Store) Add(ctx context.Context, sourcePath string, nb types.Notebook) (AddStatus, error) {
	id := NotebookID(sourcePath)
	if id == "" {
		return "", fmt.Errorf("cannot derive a notebook id from %q", sourcePath)
	}
	hash := ContentHash(nb)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var storedHash string
	err = tx.QueryRowContext(ctx, `SELECT content_hash FROM notebooks WHERE id = ?`, id).Scan(&storedHash)
	switch {
	case err == nil && storedHash == hash:
		return StatusSkipped, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("looking up notebook %s: %w", id, err)
	}
	isUpdate := err == nil

	if isUpdate {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM highlights_fts WHERE docid IN (SELECT id FROM highlights WHERE notebook_id = ?)`, id,
		); err != nil {
			return "", fmt.Errorf("deleting old search entries: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM highlights WHERE notebook_id = ?`, id); err != nil {
			return "", fmt.Errorf("deleting old highlights: %w", err)
		}
	}

	authorsJSON, err := json.Marshal(nb.Authors)
	if err != nil {
		return "", fmt.Errorf("encoding authors: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO notebooks (id, title, authors, source_path, content_hash, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, source_path=excluded.source_path,
			content_hash=excluded.content_hash, imported_at=excluded.imported_at`,
		id, nb.Title, string(authorsJSON), sourcePath, hash, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("upserting notebook: %w", err)
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO highlights (notebook_id, position, heading, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer insert.Close()

	index, err := tx.PrepareContext(ctx,
		`INSERT INTO highlights_fts (docid, heading, text) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing search insert: %w", err)
	}
	defer index.Close()

	for i, h := range nb.Highlights {
		res, err := insert.ExecContext(ctx, id, i, h.Heading, h.Text)
		if err != nil {
			return "", fmt.Errorf("inserting highlight %d: %w", i, err)
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return "", fmt.Errorf("reading highlight id: %w", err)
		}
		if _, err := index.ExecContext(ctx, rowID, h.Heading, h.Text); err != nil {
			return "", fmt.Errorf("indexing highlight %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing notebook %s: %w", id, err)
	}
	if isUpdate {
		return StatusUpdated, nil
	}
	return StatusAdded, nil
}

// Summary describes one stored notebook.
type Summary struct {
	ID         string   `json:"id" yaml:"id"`
	Title      string   `json:"title" yaml:"title"`
	Authors    []string `json:"authors" yaml:"authors"`
	SourcePath string   `json:"source_path" yaml:"source_path"`
	ImportedAt string   `json:"imported_at" yaml:"imported_at"`
	Highlights int      `json:"highlights" yaml:"highlights"`
}

// Notebooks lists every stored notebook ordered by title.
func (s *Store) Notebooks(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT n.id, n.title, n.authors, n.source_path, n.imported_at,
			(SELECT count(*) FROM highlights h WHERE h.notebook_id = n.id)
		FROM notebooks n
		ORDER BY n.title, n.id`)
	if err != nil {
		return nil, fmt.Errorf("listing notebooks: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sm          Summary
			authorsJSON string
		)
		if err := rows.Scan(&sm.ID, &sm.Title, &authorsJSON, &sm.SourcePath, &sm.ImportedAt, &sm.Highlights); err != nil {
			return nil, fmt.Errorf("scanning notebook: %w", err)
		}
		if sm.Authors, err = decodeAuthors(authorsJSON); err != nil {
			return nil, fmt.Errorf("notebook %s: %w", sm.ID, err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// Notebook rebuilds the stored notebook with the given ID.
func (s *Store) Notebook(ctx context.Context, id string) (types.Notebook, error) {
	var (
		nb          types.Notebook
		authorsJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT title, authors FROM notebooks WHERE id = ?`, id,
	).Scan(&nb.Title, &authorsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Notebook{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return types.Notebook{}, fmt.Errorf("looking up notebook %s: %w", id, err)
	}
	if nb.Authors, err = decodeAuthors(authorsJSON); err != nil {
		return types.Notebook{}, fmt.Errorf("notebook %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT heading, text FROM highlights WHERE notebook_id = ? ORDER BY position`, id)
	if err != nil {
		return types.Notebook{}, fmt.Errorf("loading highlights: %w", err)
	}
	defer rows.Close()

	nb.Highlights = []types.Highlight{}
	for rows.Next() {
		var h types.Highlight
		if err := rows.Scan(&h.Heading, &h.Text); err != nil {
			return types.Notebook{}, fmt.Errorf("scanning highlight: %w", err)
		}
		nb.Highlights = append(nb.Highlights, h)
	}
	return nb, rows.Err()
}

// decodeAuthors reads the authors column. A JSON null decodes to an empty
// list so stored and parsed notebooks compare equal.
func decodeAuthors(data string) ([]string, error) {
	var authors []string
	if err := json.Unmarshal([]byte(data), &authors); err != nil {
		return nil, fmt.Errorf("decoding authors: %w", err)
	}
	if authors == nil {
		authors = []string{}
	}
	return authors, nil
}
