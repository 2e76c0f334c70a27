// Package users stores accounts. Implementations exist for PostgreSQL and
// SQLite; both report a taken username as common.ErrorAlreadyExists and a
// missing one as common.ErrorNotFound.
package users

import (
	"context"

	"github.com/dmitrijs2005/linkshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}
