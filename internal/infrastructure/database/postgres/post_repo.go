package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ZzaizZ/goblog/internal/domain/entities"
	"github.com/ZzaizZ/goblog/internal/domain/repositories"
	"github.com/ZzaizZ/goblog/internal/pkg/metrics"
)

// PostRepository implements the PostRepository interface for PostgreSQL
type PostRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sqlx.DB) repositories.PostRepository {
	return &PostRepository{
		db:  db,
		log: slog.Default().With(slog.String("repo", "post")),
	}
}

// postRow represents a post as stored in the database
type postRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Slug      string    `db:"slug"`
	Content   string    `db:"content"`
	AuthorID  string    `db:"author_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// toEntity converts a postRow to a domain entity
func (r *postRow) toEntity() *entities.Post {
	return &entities.Post{
		ID:        r.ID,
		Title:     r.Title,
		Slug:      r.Slug,
		Content:   r.Content,
		AuthorID:  r.AuthorID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// postRowFromEntity converts a domain entity to a postRow
func postRowFromEntity(post *entities.Post) *postRow {
	return &postRow{
		ID:        post.ID,
		Title:     post.Title,
		Slug:      post.Slug,
		Content:   post.Content,
		AuthorID:  post.AuthorID,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("post", "create", time.Since(start), err)
	}()

	r.log.Debug("creating post",
		slog.String("id", post.ID),
		slog.String("author_id", post.AuthorID))

	row := postRowFromEntity(post)

	query := `INSERT INTO posts (id, title, slug, content, author_id, created_at, updated_at)
		VALUES (:id, :title, :slug, :content, :author_id, :created_at, :updated_at)`

	_, err = r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by its ID
func (r *PostRepository) GetByID(ctx context.Context, id string) (*entities.Post, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("post", "get_by_id", time.Since(start), err)
	}()

	var row postRow
	query := `
		SELECT id, title, slug, content, author_id, created_at, updated_at
		FROM posts
		WHERE id = $1`

	err = r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			err = repositories.ErrPostNotFound
			return nil, err
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return row.toEntity(), nil
}

// Update updates an existing post
func (r *PostRepository) Update(ctx context.Context, post *entities.Post) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("post", "update", time.Since(start), err)
	}()

	row := postRowFromEntity(post)

	query := `
		UPDATE posts SET
			title = :title,
			slug = :slug,
			content = :content,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		err = repositories.ErrPostNotFound
		return err
	}

	return nil
}

// Delete removes a post
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("post", "delete", time.Since(start), err)
	}()

	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		err = repositories.ErrPostNotFound
		return err
	}

	return nil
}

// List returns posts newest first with limit/offset pagination
func (r *PostRepository) List(ctx context.Context, opts repositories.ListPostsOptions) ([]*entities.Post, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("post", "list", time.Since(start), err)
	}()

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	var rows []postRow
	query := `
		SELECT id, title, slug, content, author_id, created_at, updated_at
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	err = r.db.SelectContext(ctx, &rows, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]*entities.Post, len(rows))
	for i := range rows {
		posts[i] = rows[i].toEntity()
	}

	return posts, nil
}
