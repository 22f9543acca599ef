// Package users declares the repository contract for registered accounts.
package users

import (
	"context"

	"github.com/bcheng02/flash-cards/internal/server/models"
)

// Repository stores accounts keyed by a unique username.
type Repository interface {
	// Create inserts user and fills in ID and CreatedAt. A taken username
	// yields common.ErrorDuplicateUsername.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
