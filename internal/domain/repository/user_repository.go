package repository

import (
	"context"

	"github.com/turtacn/certverify/internal/domain/models"
)

// UserRepository defines the interface for interacting with user storage.
type UserRepository interface {
	// Save persists a new user. A taken username yields errors.ErrDuplicateKey.
	Save(ctx context.Context, user *models.User) error

	// FindByUsername retrieves a user by login name. A missing user yields a not_found error.
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// Count returns the number of registered users.
	Count(ctx context.Context) (int64, error)
}
