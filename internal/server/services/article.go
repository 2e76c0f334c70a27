package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/server/auth"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/repomanager"
)

const (
	MsgURLRequired      = "URL is required"
	MsgURLInvalid       = "Invalid URL format"
	MsgArticleNotFound  = "Article not found"
	MsgDeleteNotAllowed = "Not authorized to delete this article"
)

// NewArticle is the create-article request body. An empty title is stored
// as NULL.
type NewArticle struct {
	URL   string `json:"url" validate:"required,url"`
	Title string `json:"title"`
}

type ArticleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewArticleService(db *sql.DB, m repomanager.RepositoryManager) *ArticleService {
	return &ArticleService{db: db, repomanager: m}
}

// List returns all articles with their authors, newest first.
func (s *ArticleService) List(ctx context.Context) ([]models.ArticleView, error) {
	list, err := s.repomanager.Articles(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: error listing articles: %v", common.ErrorInternal, err)
	}
	return list, nil
}

// Create stores an article owned by the requester and returns it joined
// with the owner's username.
func (s *ArticleService) Create(ctx context.Context, requester auth.Identity, in NewArticle) (*models.ArticleView, error) {
	if err := validate.Struct(in); err != nil {
		if failedTag(err) == "required" {
			return nil, common.NewValidationError(MsgURLRequired)
		}
		return nil, common.NewValidationError(MsgURLInvalid)
	}

	a := &models.Article{URL: in.URL, UserID: requester.UserID}
	if in.Title != "" {
		a.Title = &in.Title
	}

	repo := s.repomanager.Articles(s.db)
	created, err := repo.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("%w: error creating article: %v", common.ErrorInternal, err)
	}

	view, err := repo.GetView(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: error loading article: %v", common.ErrorInternal, err)
	}
	return view, nil
}

// Delete removes an article. A missing article is common.ErrorNotFound for
// every caller; only then is ownership checked, giving common.ErrorForbidden
// to anyone who is neither the owner nor an admin.
func (s *ArticleService) Delete(ctx context.Context, requester auth.Identity, id int64) error {
	repo := s.repomanager.Articles(s.db)

	article, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: error loading article: %v", common.ErrorInternal, err)
	}

	if !auth.CanDelete(requester, article.UserID) {
		return common.ErrorForbidden
	}

	if err := repo.Delete(ctx, id); err != nil {
		// Deleted concurrently between the lookup and here.
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: error deleting article: %v", common.ErrorInternal, err)
	}
	return nil
}
