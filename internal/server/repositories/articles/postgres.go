package articles

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/linkshare/internal/dbx"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
)

const (
	pgListQuery = `SELECT a.id, a.url, a.title, a.user_id, a.created_at, u.username
		 FROM articles a
		 JOIN users u ON a.user_id = u.id
		 ORDER BY a.created_at DESC, a.id DESC`

	pgViewQuery = `SELECT a.id, a.url, a.title, a.user_id, a.created_at, u.username
		 FROM articles a
		 JOIN users u ON a.user_id = u.id
		 WHERE a.id = $1`
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.ArticleView, error) {
	return listViews(ctx, r.db, pgListQuery)
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	query :=
		`INSERT INTO articles (url, title, user_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, a.URL, a.Title, a.UserID).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	return getArticle(ctx, r.db, `SELECT id, url, title, user_id, created_at FROM articles WHERE id = $1`, id)
}

func (r *PostgresRepository) GetView(ctx context.Context, id int64) (*models.ArticleView, error) {
	return getView(ctx, r.db, pgViewQuery, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return deleteArticle(ctx, r.db, `DELETE FROM articles WHERE id = $1`, id)
}
