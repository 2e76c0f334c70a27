// Package storetest opens throwaway migrated databases for tests.
package storetest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/linkshare/internal/server/migrations"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// OpenSQLite returns an in-memory SQLite database with foreign keys on and
// the full schema applied. It is closed when the test ends.
func OpenSQLite(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	// Every new connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetLogger(goose.NopLogger())
	require.NoError(t, migrations.Up(context.Background(), db, "sqlite"))
	return db
}
