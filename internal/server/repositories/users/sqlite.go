package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/dbx"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, password_hash, is_admin)
		 VALUES (?, ?, ?)
		 `

	res, err := r.db.ExecContext(ctx, query, user.UserName, user.PasswordHash, user.IsAdmin)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.ID = id

	err = r.db.QueryRowContext(ctx, `SELECT created_at FROM users WHERE id = ?`, id).Scan(&user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLiteRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	query :=
		`SELECT id, username, password_hash, is_admin, created_at FROM users
		 WHERE username = ?
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, userName).
		Scan(&user.ID, &user.UserName, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.User, error) {
	return listUsers(ctx, r.db, `SELECT id, username, is_admin, created_at FROM users ORDER BY id`)
}

func isUniqueViolation(err error) bool {
	var sqErr *sqlite.Error
	if !errors.As(err, &sqErr) {
		return false
	}
	switch code := sqErr.Code(); code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// Connections without extended result codes only report the primary code.
		return strings.Contains(sqErr.Error(), "UNIQUE")
	default:
		return false
	}
}
