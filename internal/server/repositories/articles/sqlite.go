package articles

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/linkshare/internal/dbx"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
)

const (
	sqliteListQuery = `SELECT a.id, a.url, a.title, a.user_id, a.created_at, u.username
		 FROM articles a
		 JOIN users u ON a.user_id = u.id
		 ORDER BY a.created_at DESC, a.id DESC`

	sqliteViewQuery = `SELECT a.id, a.url, a.title, a.user_id, a.created_at, u.username
		 FROM articles a
		 JOIN users u ON a.user_id = u.id
		 WHERE a.id = ?`
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.ArticleView, error) {
	return listViews(ctx, r.db, sqliteListQuery)
}

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO articles (url, title, user_id) VALUES (?, ?, ?)`, a.URL, a.Title, a.UserID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	return getArticle(ctx, r.db, `SELECT id, url, title, user_id, created_at FROM articles WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetView(ctx context.Context, id int64) (*models.ArticleView, error) {
	return getView(ctx, r.db, sqliteViewQuery, id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	return deleteArticle(ctx, r.db, `DELETE FROM articles WHERE id = ?`, id)
}
