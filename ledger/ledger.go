// Package ledger persists a record of submitted documents in SQLite, keyed
// by a hash of the submitted content. Re-running a batch against the same
// ledger skips documents the sink already holds.
package ledger

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Schema for the submissions table, applied on Open.
const Schema = `
CREATE TABLE IF NOT EXISTS submissions (
	content_sha256 TEXT PRIMARY KEY,
	item_id TEXT NOT NULL,
	title TEXT NOT NULL,
	chunks INTEGER NOT NULL,
	tokens INTEGER NOT NULL,
	submitted_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_item ON submissions(item_id);
`

// Ledger is a SQLite-backed submission record.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", path, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: init schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// ContentHash derives the ledger key for a document's content.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Seen reports whether content with the given hash was already submitted.
func (l *Ledger) Seen(ctx context.Context, contentHash string) (bool, error) {
	var one int
	err := l.db.QueryRowContext(ctx,
		`SELECT 1 FROM submissions WHERE content_sha256 = ?`, contentHash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ledger: lookup: %w", err)
	}
	return true, nil
}

// Record stores one successful submission. Recording the same hash twice is
// a no-op, so a late duplicate never fails the run.
func (l *Ledger) Record(ctx context.Context, contentHash, itemID, title string, chunks, tokens int) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO submissions
		 (content_sha256, item_id, title, chunks, tokens, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		contentHash, itemID, title, chunks, tokens, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("ledger: record: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
