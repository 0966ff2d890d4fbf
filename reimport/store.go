package reimport

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Schema creates the fingerprint table. Pass to dbopen.Open via WithSchema.
const Schema = `
CREATE TABLE IF NOT EXISTS fingerprints (
	page_url    TEXT NOT NULL,
	path        TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	node_id     TEXT NOT NULL DEFAULT '',
	updated_at  INTEGER NOT NULL,
	PRIMARY KEY (page_url, path)
);
`

// Store persists fingerprint maps keyed by page URL so a later run can diff
// against the previous import without the canvas document present.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database. The caller owns the handle; apply Schema
// at open time.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save replaces the stored map for a page URL with the given one.
func (s *Store) Save(ctx context.Context, pageURL string, m map[string]Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reimport: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fingerprints WHERE page_url = ?`, pageURL); err != nil {
		return fmt.Errorf("reimport: clear: %w", err)
	}

	now := time.Now().UnixMilli()
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fingerprints (page_url, path, fingerprint, node_id, updated_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("reimport: prepare: %w", err)
	}
	defer stmt.Close()

	for path, e := range m {
		if _, err := stmt.ExecContext(ctx, pageURL, path, e.Fingerprint, e.NodeID, now); err != nil {
			return fmt.Errorf("reimport: insert %s: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reimport: commit: %w", err)
	}
	return nil
}

// Load returns the stored map for a page URL. A URL never saved yields an
// empty map, not an error: diffing against it reports everything as added.
func (s *Store) Load(ctx context.Context, pageURL string) (map[string]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, fingerprint, node_id FROM fingerprints WHERE page_url = ?`, pageURL)
	if err != nil {
		return nil, fmt.Errorf("reimport: query: %w", err)
	}
	defer rows.Close()

	m := make(map[string]Entry)
	for rows.Next() {
		var path string
		var e Entry
		if err := rows.Scan(&path, &e.Fingerprint, &e.NodeID); err != nil {
			return nil, fmt.Errorf("reimport: scan: %w", err)
		}
		m[path] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reimport: rows: %w", err)
	}
	return m, nil
}
