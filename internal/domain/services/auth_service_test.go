package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ZzaizZ/goblog/internal/auth"
	"github.com/ZzaizZ/goblog/internal/domain/entities"
	"github.com/ZzaizZ/goblog/internal/domain/repositories"
)

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entities.User // keyed by username
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entities.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Username]; ok {
		return repositories.ErrUserExists
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[username]
	return ok, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *auth.JWTManager) {
	t.Helper()
	repo := newFakeUserRepo()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(repo, jwtManager), repo, jwtManager
}

func TestAuthService_Register(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)

	stored, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	// Password must be stored hashed, never verbatim
	assert.NotEqual(t, "hunter2", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2")))
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "hunter2")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "other@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), "", "alice@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Login(t *testing.T) {
	svc, _, jwtManager := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "hunter2")
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), "alice", "hunter2")
	require.NoError(t, err)
	assert.EqualValues(t, 3600, pair.ExpiresIn)

	claims, err := jwtManager.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, "alice", claims.Username)
}

func TestAuthService_Login_BadPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "hunter2")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "nobody", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _, jwtManager := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "hunter2")
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	claims, err := jwtManager.ValidateToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_AccessTokenExpired(t *testing.T) {
	// A refresh token signed by a different secret must be rejected
	other := auth.NewJWTManager("other-secret", time.Hour, 24*time.Hour)
	refresh, _, err := other.GenerateRefreshToken("user-1", "alice")
	require.NoError(t, err)

	svc, _, _ := newTestAuthService(t)
	_, err = svc.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
