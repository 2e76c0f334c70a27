package articles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/dbx"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanView(row rowScanner) (*models.ArticleView, error) {
	v := &models.ArticleView{}
	if err := row.Scan(&v.ID, &v.URL, &v.Title, &v.UserID, &v.CreatedAt, &v.UserName); err != nil {
		return nil, err
	}
	return v, nil
}

func listViews(ctx context.Context, db dbx.DBTX, query string) ([]models.ArticleView, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.ArticleView, 0)
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func getView(ctx context.Context, db dbx.DBTX, query string, id int64) (*models.ArticleView, error) {
	v, err := scanView(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func getArticle(ctx context.Context, db dbx.DBTX, query string, id int64) (*models.Article, error) {
	a := &models.Article{}
	err := db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.URL, &a.Title, &a.UserID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func deleteArticle(ctx context.Context, db dbx.DBTX, query string, id int64) error {
	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
