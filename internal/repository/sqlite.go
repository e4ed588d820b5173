package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS journal_entries (
	id           TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	entry_date   TEXT NOT NULL,
	amount       TEXT NOT NULL,
	customer_key TEXT NOT NULL DEFAULT '',
	text         TEXT NOT NULL,
	reverses     TEXT REFERENCES journal_entries(id),
	created_at   TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_entries_created_at ON journal_entries(created_at);
CREATE INDEX IF NOT EXISTS idx_journal_entries_text ON journal_entries(text);
`

// OpenSQLite opens the journal database at path in WAL mode and creates the
// schema if needed.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("OpenSQLite: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("OpenSQLite: open: %w", err)
	}
	// One writer at a time; the busy timeout covers other processes.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("OpenSQLite: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("OpenSQLite: schema: %w", err)
	}

	return NewDB(db, DialectSQLite), nil
}
