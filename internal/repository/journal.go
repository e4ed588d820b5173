package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
)

const journalColumns = `id, kind, entry_date, amount, customer_key, text, reverses, created_at`

type JournalRepository struct {
	db *DB
}

func NewJournalRepository(db *DB) *JournalRepository {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) Create(ctx context.Context, rec *domain.JournalRecord) error {
	_, err := r.db.pool.ExecContext(ctx, r.db.rebind(
		`INSERT INTO journal_entries (`+journalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.Kind, rec.EntryDate, rec.Amount, rec.CustomerKey,
		rec.Text, rec.Reverses, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (r *JournalRepository) Recent(ctx context.Context, limit int) ([]domain.JournalRecord, error) {
	rows, err := r.db.pool.QueryContext(ctx, r.db.rebind(
		`SELECT `+journalColumns+` FROM journal_entries
		ORDER BY created_at DESC LIMIT ?`), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("Recent: %w", err)
	}
	defer rows.Close()

	var records []domain.JournalRecord
	for rows.Next() {
		rec, err := scanJournalRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("Recent: scan: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Recent: rows: %w", err)
	}
	return records, nil
}

// FindLatestByText returns the newest record whose text equals text.
func (r *JournalRepository) FindLatestByText(ctx context.Context, text string) (*domain.JournalRecord, error) {
	row := r.db.pool.QueryRowContext(ctx, r.db.rebind(
		`SELECT `+journalColumns+` FROM journal_entries
		WHERE text = ? ORDER BY created_at DESC LIMIT 1`), text,
	)

	rec, err := scanJournalRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("FindLatestByText: %w", err)
	}
	return rec, nil
}

func scanJournalRecord(s scanner) (*domain.JournalRecord, error) {
	var rec domain.JournalRecord
	err := s.Scan(
		&rec.ID, &rec.Kind, &rec.EntryDate, &rec.Amount, &rec.CustomerKey,
		&rec.Text, &rec.Reverses, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
