package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// NewPostgresDB opens the server journal. databaseURL may be a postgres://
// URL or a key=value DSN. Zero pool limits keep the database/sql defaults.
func NewPostgresDB(ctx context.Context, databaseURL string, pool PoolConfig) (*DB, error) {
	dsn, err := postgresDSN(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("NewPostgresDB: %w", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewPostgresDB: open: %w", err)
	}

	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("NewPostgresDB: ping: %w", err)
	}
	return NewDB(db, DialectPostgres), nil
}

func postgresDSN(databaseURL string) (string, error) {
	if !strings.HasPrefix(databaseURL, "postgres://") && !strings.HasPrefix(databaseURL, "postgresql://") {
		return databaseURL, nil
	}
	dsn, err := pq.ParseURL(databaseURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	return dsn, nil
}
