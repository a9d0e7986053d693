// internal/repository/user_repo.go
package repository

import (
	"context"

	"rentflow/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// GetUserByID retrieves a user by their ID using the provided DBExecutor.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetPlatformUser retrieves the unique admin-role user that owns the
	// platform escrow wallet.
	GetPlatformUser(ctx context.Context, q DBExecutor) (*domain.User, error)
}
