package repository

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"
)

const migrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    VARCHAR(255) PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
)`

// Migrate applies the *.up.sql files in files that are not yet recorded in
// schema_migrations, in name order, one transaction per file. It returns the
// versions it applied.
func Migrate(ctx context.Context, db *DB, files fs.FS) ([]string, error) {
	if _, err := db.pool.ExecContext(ctx, migrationsTable); err != nil {
		return nil, fmt.Errorf("Migrate: create table: %w", err)
	}

	names, err := fs.Glob(files, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("Migrate: %w", err)
	}
	sort.Strings(names)

	var applied []string
	for _, name := range names {
		version := strings.TrimSuffix(name, ".up.sql")

		done, err := db.migrationApplied(ctx, version)
		if err != nil {
			return applied, fmt.Errorf("Migrate: %s: %w", version, err)
		}
		if done {
			continue
		}

		body, err := fs.ReadFile(files, name)
		if err != nil {
			return applied, fmt.Errorf("Migrate: read %s: %w", name, err)
		}
		if err := db.applyMigration(ctx, version, string(body)); err != nil {
			return applied, fmt.Errorf("Migrate: %s: %w", version, err)
		}
		applied = append(applied, version)
	}
	return applied, nil
}

func (d *DB) migrationApplied(ctx context.Context, version string) (bool, error) {
	var n int
	err := d.pool.QueryRowContext(ctx,
		d.rebind(`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`), version,
	).Scan(&n)
	return n > 0, err
}

func (d *DB) applyMigration(ctx context.Context, version, body string) error {
	tx, err := d.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		d.rebind(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`),
		version, time.Now().UTC(),
	); err != nil {
		return err
	}
	return tx.Commit()
}
