package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/linkshare/internal/dbx"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/articles"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Articles(db dbx.DBTX) articles.Repository {
	return articles.NewPostgresRepository(db)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "pgx")
}
