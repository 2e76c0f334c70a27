package migrations

import (
	"context"
	"database/sql"
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestSource(t *testing.T) {
	for driver, wantDialect := range map[string]string{"pgx": "pgx", "sqlite": "sqlite3"} {
		fsys, dialect, err := Source(driver)
		require.NoError(t, err)
		assert.Equal(t, wantDialect, dialect)

		files, err := fs.Glob(fsys, "*.sql")
		require.NoError(t, err)
		assert.Equal(t, []string{"00001_create_users.sql", "00002_create_articles.sql"}, files)
	}

	_, _, err := Source("mysql")
	assert.Error(t, err)
}

func TestUp_SQLiteSchema(t *testing.T) {
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	goose.SetLogger(goose.NopLogger())
	ctx := context.Background()
	require.NoError(t, Up(ctx, db, "sqlite"))
	// A second run is a no-op.
	require.NoError(t, Up(ctx, db, "sqlite"))

	res, err := db.ExecContext(ctx, `INSERT INTO users (username, password_hash) VALUES ('alice12', 'h')`)
	require.NoError(t, err)
	uid, err := res.LastInsertId()
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO articles (url, user_id) VALUES ('https://go.dev', ?)`, uid)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO users (username, password_hash) VALUES ('alice12', 'h2')`)
	assert.Error(t, err, "usernames are unique")

	_, err = db.ExecContext(ctx, `INSERT INTO articles (url, user_id) VALUES ('https://go.dev', 999)`)
	assert.Error(t, err, "articles need an existing owner")

	_, err = db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, uid)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n))
	assert.Equal(t, 0, n, "deleting a user cascades to their articles")
}
