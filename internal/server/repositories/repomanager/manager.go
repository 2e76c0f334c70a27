// Package repomanager hands out repositories for one storage backend and
// owns that backend's schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/linkshare/internal/dbx"
	"github.com/dmitrijs2005/linkshare/internal/server/migrations"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/articles"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Articles(db dbx.DBTX) articles.Repository
}

// New returns the manager for a database/sql driver name.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case "pgx":
		return NewPostgresRepositoryManager(), nil
	case "sqlite":
		return NewSQLiteRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func runMigrations(ctx context.Context, db *sql.DB, driver string) error {
	var (
		fsys    fs.FS
		dialect string
		err     error
	)
	if fsys, dialect, err = migrations.Source(driver); err != nil {
		return err
	}
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
