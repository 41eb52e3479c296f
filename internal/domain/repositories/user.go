package repositories

import (
	"context"

	"github.com/ZzaizZ/goblog/internal/domain/entities"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByUsername retrieves a user by username or email
	GetByUsername(ctx context.Context, username string) (*entities.User, error)

	// ExistsByUsername checks whether a username or email is already taken
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
