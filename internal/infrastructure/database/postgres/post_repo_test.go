package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZzaizZ/goblog/internal/domain/entities"
	"github.com/ZzaizZ/goblog/internal/domain/repositories"
)

func testPost() *entities.Post {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &entities.Post{
		ID:        "7c1e60ec-9c1f-4b53-a3f7-0b7bb9a7e9b1",
		Title:     "Hello, World!",
		Slug:      "hello-world",
		Content:   "first post",
		AuthorID:  "a4f7cfdd-61f0-41c3-a4d0-30f2b1a9a5f7",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func postColumns() []string {
	return []string{"id", "title", "slug", "content", "author_id", "created_at", "updated_at"}
}

func TestPostRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	post := testPost()

	mock.ExpectExec("INSERT INTO posts").
		WithArgs(post.ID, post.Title, post.Slug, post.Content, post.AuthorID, post.CreatedAt, post.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), post))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	post := testPost()

	rows := sqlmock.NewRows(postColumns()).
		AddRow(post.ID, post.Title, post.Slug, post.Content, post.AuthorID, post.CreatedAt, post.UpdatedAt)
	mock.ExpectQuery("SELECT (.+) FROM posts").
		WithArgs(post.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)
	assert.Equal(t, post.Slug, got.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM posts").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(postColumns()))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repositories.ErrPostNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	post := testPost()

	mock.ExpectExec("UPDATE posts SET").
		WithArgs(post.Title, post.Slug, post.Content, post.UpdatedAt, post.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), post))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	post := testPost()

	mock.ExpectExec("UPDATE posts SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), post)
	assert.ErrorIs(t, err, repositories.ErrPostNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	post := testPost()

	mock.ExpectExec("DELETE FROM posts").
		WithArgs(post.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), post.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec("DELETE FROM posts").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, repositories.ErrPostNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	post := testPost()

	rows := sqlmock.NewRows(postColumns()).
		AddRow(post.ID, post.Title, post.Slug, post.Content, post.AuthorID, post.CreatedAt, post.UpdatedAt)
	mock.ExpectQuery("SELECT (.+) FROM posts").
		WithArgs(20, 0).
		WillReturnRows(rows)

	posts, err := repo.List(context.Background(), repositories.ListPostsOptions{Limit: 20, Offset: 0})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
