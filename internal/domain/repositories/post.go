package repositories

import (
	"context"

	"github.com/ZzaizZ/goblog/internal/domain/entities"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	// Create a new post
	Create(ctx context.Context, post *entities.Post) error

	// GetByID retrieves a post by its ID
	GetByID(ctx context.Context, id string) (*entities.Post, error)

	// Update an existing post
	Update(ctx context.Context, post *entities.Post) error

	// Delete a post
	Delete(ctx context.Context, id string) error

	// List posts, newest first, with pagination
	List(ctx context.Context, opts ListPostsOptions) ([]*entities.Post, error)
}

// ListPostsOptions provides pagination options for listing posts
type ListPostsOptions struct {
	Limit  int
	Offset int
}
