// Package articles stores shared links.
package articles

import (
	"context"

	"github.com/dmitrijs2005/linkshare/internal/server/models"
)

type Repository interface {
	// List returns every article joined with its author, newest first.
	List(ctx context.Context) ([]models.ArticleView, error)
	Create(ctx context.Context, article *models.Article) (*models.Article, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	GetView(ctx context.Context, id int64) (*models.ArticleView, error)
	// Delete removes the article and reports common.ErrorNotFound when
	// nothing was deleted.
	Delete(ctx context.Context, id int64) error
}
