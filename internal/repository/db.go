package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

type scanner interface {
	Scan(dest ...any) error
}

type DB struct {
	pool    *sql.DB
	dialect Dialect
}

func NewDB(pool *sql.DB, dialect Dialect) *DB {
	return &DB{pool: pool, dialect: dialect}
}

func (d *DB) Conn() *sql.DB {
	return d.pool
}

func (d *DB) Dialect() Dialect {
	return d.dialect
}

func (d *DB) Ping(ctx context.Context) error {
	if err := d.pool.PingContext(ctx); err != nil {
		return fmt.Errorf("Ping: %w", err)
	}
	return nil
}

func (d *DB) Close() error {
	return d.pool.Close()
}

// rebind rewrites ? placeholders as $1, $2, ... for postgres.
func (d *DB) rebind(query string) string {
	if d.dialect != DialectPostgres {
		return query
	}

	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
