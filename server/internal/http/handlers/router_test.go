package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZzaizZ/goblog/api/rest"
	"github.com/ZzaizZ/goblog/internal/auth"
	"github.com/ZzaizZ/goblog/internal/domain/entities"
	"github.com/ZzaizZ/goblog/internal/domain/repositories"
	"github.com/ZzaizZ/goblog/internal/domain/services"
)

// in-memory repositories for end-to-end handler tests

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entities.User
}

func (m *memUserRepo) Create(_ context.Context, u *entities.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return repositories.ErrUserExists
	}
	m.users[u.Username] = u
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (m *memUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[username]
	return ok, nil
}

type memPostRepo struct {
	mu    sync.Mutex
	posts map[string]*entities.Post
}

func (m *memPostRepo) Create(_ context.Context, p *entities.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[p.ID] = p
	return nil
}

func (m *memPostRepo) GetByID(_ context.Context, id string) (*entities.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		return p, nil
	}
	return nil, repositories.ErrPostNotFound
}

func (m *memPostRepo) Update(_ context.Context, p *entities.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[p.ID]; !ok {
		return repositories.ErrPostNotFound
	}
	m.posts[p.ID] = p
	return nil
}

func (m *memPostRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memPostRepo) List(_ context.Context, opts repositories.ListPostsOptions) ([]*entities.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.Post
	for _, p := range m.posts {
		out = append(out, p)
	}
	return out, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	authService := services.NewAuthService(&memUserRepo{users: map[string]*entities.User{}}, jwtManager)
	postService := services.NewPostService(&memPostRepo{posts: map[string]*entities.Post{}})

	srv := httptest.NewServer(NewRouter(
		NewAuthHandler(authService),
		NewPostsHandler(postService),
		jwtManager,
	))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, bearer string, body, out any) int {
	t.Helper()
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func registerAndLogin(t *testing.T, srv *httptest.Server, username string) rest.TokenResponse {
	t.Helper()
	status := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "",
		rest.RegisterRequest{Username: username, Email: username + "@example.com", Password: "hunter2"}, nil)
	require.Equal(t, http.StatusCreated, status)

	var tokens rest.TokenResponse
	status = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "",
		rest.LoginRequest{Username: username, Password: "hunter2"}, &tokens)
	require.Equal(t, http.StatusOK, status)
	return tokens
}

func TestREST_RegisterLoginRefresh(t *testing.T) {
	srv := newTestServer(t)
	tokens := registerAndLogin(t, srv, "alice")
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.EqualValues(t, 3600, tokens.ExpiresIn)

	var refreshed rest.TokenResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/refresh", "",
		rest.RefreshTokenRequest{RefreshToken: tokens.RefreshToken}, &refreshed)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestREST_Refresh_Invalid(t *testing.T) {
	srv := newTestServer(t)
	status := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/refresh", "",
		rest.RefreshTokenRequest{RefreshToken: "garbage"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestREST_Register_Duplicate(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv, "alice")

	status := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "",
		rest.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "hunter2"}, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestREST_PostCRUD(t *testing.T) {
	srv := newTestServer(t)
	tokens := registerAndLogin(t, srv, "alice")

	var created rest.PostResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/api/v1/posts", tokens.AccessToken,
		rest.CreatePostRequest{Title: "Hello, World!", Content: "body"}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "hello-world", created.Slug)

	// reads are public, no token needed
	var fetched rest.PostResponse
	status = doJSON(t, http.MethodGet, srv.URL+"/api/v1/posts/"+created.ID, "", nil, &fetched)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.Title, fetched.Title)

	var updated rest.PostResponse
	status = doJSON(t, http.MethodPut, srv.URL+"/api/v1/posts/"+created.ID, tokens.AccessToken,
		rest.UpdatePostRequest{Title: "New Title", Content: "new body"}, &updated)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "new-title", updated.Slug)

	var list []rest.PostResponse
	status = doJSON(t, http.MethodGet, srv.URL+"/api/v1/posts", "", nil, &list)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, list, 1)

	status = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/posts/"+created.ID, tokens.AccessToken, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status = doJSON(t, http.MethodGet, srv.URL+"/api/v1/posts/"+created.ID, "", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestREST_MutationsRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	status := doJSON(t, http.MethodPost, srv.URL+"/api/v1/posts", "",
		rest.CreatePostRequest{Title: "x", Content: "y"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestREST_UpdateByOtherAuthorForbidden(t *testing.T) {
	srv := newTestServer(t)
	alice := registerAndLogin(t, srv, "alice")
	bob := registerAndLogin(t, srv, "bob")

	var created rest.PostResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/api/v1/posts", alice.AccessToken,
		rest.CreatePostRequest{Title: "Alice's Post", Content: "body"}, &created)
	require.Equal(t, http.StatusCreated, status)

	status = doJSON(t, http.MethodPut, srv.URL+"/api/v1/posts/"+created.ID, bob.AccessToken,
		rest.UpdatePostRequest{Title: "Hijacked", Content: "body"}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/posts/"+created.ID, bob.AccessToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)
}
