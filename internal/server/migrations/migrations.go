// Package migrations applies the embedded schema migrations with goose.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/linkshare/internal/server/migrations/postgres"
	"github.com/dmitrijs2005/linkshare/internal/server/migrations/sqlite"
	"github.com/pressly/goose/v3"
)

// Source returns the migration files and the goose dialect for a
// database/sql driver name ("pgx" or "sqlite").
func Source(driver string) (fs.FS, string, error) {
	switch driver {
	case "pgx":
		return postgres.Migrations, "pgx", nil
	case "sqlite":
		return sqlite.Migrations, "sqlite3", nil
	default:
		return nil, "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

// Up migrates db to the latest schema version.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	fsys, dialect, err := Source(driver)
	if err != nil {
		return err
	}
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
