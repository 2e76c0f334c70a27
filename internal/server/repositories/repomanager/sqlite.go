package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/linkshare/internal/dbx"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/articles"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/users"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories. It is the
// default for local development.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Articles(db dbx.DBTX) articles.Repository {
	return articles.NewSQLiteRepository(db)
}

// RunMigrations applies the embedded SQLite migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite")
}
