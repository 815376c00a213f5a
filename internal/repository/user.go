package repository

import (
	"context"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
)

// UserRepository defines the persistence operations for riders.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetAll retrieves all users.
	GetAll(ctx context.Context) ([]*domain.User, error)
}
