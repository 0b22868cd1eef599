// Package users declares the credential store repository.
package users

import (
	"context"

	"github.com/dmitrijs2005/audiovote/internal/server/models"
)

type Repository interface {
	// Create inserts the user and fills in ID and CreatedAt. A taken username
	// yields common.ErrDuplicateUsername.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Count(ctx context.Context) (int, error)
}
