package repository

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_SQLite(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	files := fstest.MapFS{
		"000002_add_notes.up.sql":     {Data: []byte(`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT NOT NULL)`)},
		"000001_add_tags.up.sql":      {Data: []byte(`CREATE TABLE tags (name TEXT PRIMARY KEY)`)},
		"000001_add_tags.down.sql":    {Data: []byte(`DROP TABLE tags`)},
		"000003_broken.up.sql.backup": {Data: []byte(`not sql`)},
	}

	applied, err := Migrate(ctx, db, files)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_add_tags", "000002_add_notes"}, applied)

	_, err = db.Conn().ExecContext(ctx, `INSERT INTO notes (body) VALUES ('hola')`)
	require.NoError(t, err)

	applied, err = Migrate(ctx, db, files)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestMigrate_FailedFileIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	files := fstest.MapFS{
		"000001_ok.up.sql":  {Data: []byte(`CREATE TABLE ok_table (id INTEGER)`)},
		"000002_bad.up.sql": {Data: []byte(`CREATE TABLE`)},
	}

	applied, err := Migrate(ctx, db, files)
	require.Error(t, err)
	assert.Equal(t, []string{"000001_ok"}, applied)

	var n int
	require.NoError(t, db.Conn().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schema_migrations WHERE version = '000002_bad'`).Scan(&n))
	assert.Zero(t, n)
}
