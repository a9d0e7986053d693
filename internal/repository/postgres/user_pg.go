// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"rentflow/internal/domain"
	"rentflow/internal/repository"
	"rentflow/internal/util"

	"github.com/jmoiron/sqlx"
)

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{}
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, email, role, created_at, updated_at FROM users WHERE id = $1`
	err := q.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetPlatformUser retrieves the unique admin-role user. The schema enforces
// at most one admin; its absence is a deployment error.
func (r *UserRepository) GetPlatformUser(ctx context.Context, q repository.DBExecutor) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, email, role, created_at, updated_at FROM users WHERE role = $1`
	err := q.GetContext(ctx, &user, query, domain.RoleAdmin)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get platform user: %w", err)
	}
	return &user, nil
}
