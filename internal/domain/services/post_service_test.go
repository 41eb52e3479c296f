package services

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZzaizZ/goblog/internal/domain/entities"
	"github.com/ZzaizZ/goblog/internal/domain/repositories"
)

// fakePostRepo is an in-memory PostRepository
type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*entities.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*entities.Post)}
}

func (f *fakePostRepo) Create(_ context.Context, post *entities.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *post
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id string) (*entities.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostRepo) Update(_ context.Context, post *entities.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[post.ID]; !ok {
		return repositories.ErrPostNotFound
	}
	cp := *post
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) List(_ context.Context, opts repositories.ListPostsOptions) ([]*entities.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*entities.Post, 0, len(f.posts))
	for _, p := range f.posts {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if opts.Offset >= len(all) {
		return nil, nil
	}
	all = all[opts.Offset:]
	if len(all) > opts.Limit {
		all = all[:opts.Limit]
	}
	return all, nil
}

func TestPostService_CreateAndGet(t *testing.T) {
	svc := NewPostService(newFakePostRepo())

	post, err := svc.Create(context.Background(), "author-1", "Hello, World!", "body")
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, "author-1", post.AuthorID)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)

	got, err := svc.Get(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)
}

func TestPostService_Create_EmptyTitle(t *testing.T) {
	svc := NewPostService(newFakePostRepo())

	_, err := svc.Create(context.Background(), "author-1", "", "body")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPostService_Get_NotFound(t *testing.T) {
	svc := NewPostService(newFakePostRepo())

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_Update(t *testing.T) {
	svc := NewPostService(newFakePostRepo())

	post, err := svc.Create(context.Background(), "author-1", "Original", "body")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "author-1", post.ID, "New Title", "new body")
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "new-title", updated.Slug)
	assert.Equal(t, "new body", updated.Content)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
}

func TestPostService_Update_NotAuthor(t *testing.T) {
	svc := NewPostService(newFakePostRepo())

	post, err := svc.Create(context.Background(), "author-1", "Original", "body")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "author-2", post.ID, "New Title", "new body")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPostService_Delete(t *testing.T) {
	svc := NewPostService(newFakePostRepo())

	post, err := svc.Create(context.Background(), "author-1", "Original", "body")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "author-1", post.ID))

	_, err = svc.Get(context.Background(), post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_Delete_NotAuthor(t *testing.T) {
	svc := NewPostService(newFakePostRepo())

	post, err := svc.Create(context.Background(), "author-1", "Original", "body")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "author-2", post.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(context.Background(), post.ID)
	assert.NoError(t, err)
}

func TestPostService_List_Pagination(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), "author-1", "Post", "body")
		require.NoError(t, err)
	}

	page1, err := svc.List(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Len(t, page1, 3)

	page2, err := svc.List(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.Len(t, page2, 2)

	// zero values fall back to defaults
	all, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestValidateUUID(t *testing.T) {
	assert.NoError(t, ValidateUUID("a4f7cfdd-61f0-41c3-a4d0-30f2b1a9a5f7"))
	assert.ErrorIs(t, ValidateUUID("not-a-uuid"), ErrValidation)
}
