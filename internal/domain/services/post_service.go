package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/ZzaizZ/goblog/internal/domain/entities"
	"github.com/ZzaizZ/goblog/internal/domain/repositories"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PostService provides business logic for post CRUD
type PostService struct {
	postRepo repositories.PostRepository
	log      *slog.Logger
}

// NewPostService creates a new post service
func NewPostService(postRepo repositories.PostRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		log:      slog.Default().With(slog.String("service", "post")),
	}
}

// Create creates a new post owned by authorID
func (s *PostService) Create(ctx context.Context, authorID, title, content string) (*entities.Post, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	now := time.Now().UTC()
	post := &entities.Post{
		ID:        uuid.NewString(),
		Title:     title,
		Slug:      slug.Make(title),
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.log.Info("post created",
		slog.String("post_id", post.ID),
		slog.String("author_id", authorID))
	return post, nil
}

// Get retrieves a post by ID
func (s *PostService) Get(ctx context.Context, id string) (*entities.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// Update replaces the title and content of a post. Only the author may
// update their post.
func (s *PostService) Update(ctx context.Context, userID, id, title, content string) (*entities.Post, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != userID {
		s.log.Warn("update rejected, not the author",
			slog.String("post_id", id),
			slog.String("user_id", userID))
		return nil, ErrForbidden
	}

	post.Title = title
	post.Slug = slug.Make(title)
	post.Content = content
	post.UpdatedAt = time.Now().UTC()

	if err := s.postRepo.Update(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.log.Info("post updated", slog.String("post_id", id))
	return post, nil
}

// Delete removes a post. Only the author may delete their post.
func (s *PostService) Delete(ctx context.Context, userID, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if post.AuthorID != userID {
		s.log.Warn("delete rejected, not the author",
			slog.String("post_id", id),
			slog.String("user_id", userID))
		return ErrForbidden
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.log.Info("post deleted", slog.String("post_id", id))
	return nil
}

// List returns posts newest first. page is 1-based; zero values fall back
// to the defaults.
func (s *PostService) List(ctx context.Context, page, pageSize int) ([]*entities.Post, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}

	posts, err := s.postRepo.List(ctx, repositories.ListPostsOptions{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// ValidateUUID reports whether id parses as a UUID. Handlers use it to
// reject malformed ids before hitting the database.
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid post id", ErrValidation)
	}
	return nil
}
