package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ZzaizZ/goblog/internal/auth"
	"github.com/ZzaizZ/goblog/internal/domain/entities"
	"github.com/ZzaizZ/goblog/internal/domain/repositories"
	"github.com/ZzaizZ/goblog/internal/pkg/metrics"
)

// TokenPair is an issued access/refresh token pair
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime in seconds
}

// AuthService provides registration, login, and token refresh.
// Refresh tokens are stateless JWTs; a refresh call verifies the presented
// token's signature and expiry and issues a brand new pair.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtManager *auth.JWTManager
	log        *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		log:        slog.Default().With(slog.String("service", "auth")),
	}
}

// Register creates a new user with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*entities.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		s.log.Warn("registration rejected, user exists", slog.String("username", username))
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username))
	return user, nil
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, username, password string) (pair *TokenPair, err error) {
	defer func() { metrics.RecordLogin(err) }()

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.log.Warn("login failed, user not found", slog.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.Warn("login failed, bad password", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	pair, err = s.issuePair(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", slog.String("user_id", user.ID))
	return pair, nil
}

// Refresh validates a refresh token and issues a new pair. The rotation is
// stateless: presenting a still-valid old refresh token again also works
// until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (pair *TokenPair, err error) {
	defer func() { metrics.RecordTokenRefresh(err) }()

	claims, err := s.jwtManager.ValidateToken(refreshToken)
	if err != nil {
		s.log.Warn("refresh rejected", slog.String("error", err.Error()))
		return nil, ErrInvalidRefreshToken
	}

	pair, err = s.issuePair(claims.Subject, claims.Username)
	if err != nil {
		return nil, err
	}

	s.log.Info("token refreshed", slog.String("user_id", claims.Subject))
	return pair, nil
}

func (s *AuthService) issuePair(userID, username string) (*TokenPair, error) {
	access, _, err := s.jwtManager.GenerateAccessToken(userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, _, err := s.jwtManager.GenerateRefreshToken(userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtManager.AccessDuration().Seconds()),
	}, nil
}
