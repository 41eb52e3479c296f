package handlers

import (
	"context"
	"log/slog"

	"github.com/ZzaizZ/goblog/api/blogpb"
)

// Register creates a new account
func (h *BlogHandler) Register(ctx context.Context, req *blogpb.RegisterRequest) (*blogpb.RegisterResponse, error) {
	user, err := h.authService.Register(ctx, req.GetUsername(), req.GetEmail(), req.GetPassword())
	if err != nil {
		return nil, serviceError(err)
	}

	h.log.Info("user registered over grpc", slog.String("user_id", user.ID))
	return &blogpb.RegisterResponse{UserId: user.ID}, nil
}

// Login verifies credentials and returns a token pair
func (h *BlogHandler) Login(ctx context.Context, req *blogpb.LoginRequest) (*blogpb.LoginResponse, error) {
	pair, err := h.authService.Login(ctx, req.GetUsername(), req.GetPassword())
	if err != nil {
		return nil, serviceError(err)
	}

	return &blogpb.LoginResponse{Token: tokenPairToProto(pair)}, nil
}

// RefreshToken exchanges a refresh token for a new pair
func (h *BlogHandler) RefreshToken(ctx context.Context, req *blogpb.RefreshTokenRequest) (*blogpb.RefreshTokenResponse, error) {
	pair, err := h.authService.Refresh(ctx, req.GetRefreshToken())
	if err != nil {
		return nil, serviceError(err)
	}

	return &blogpb.RefreshTokenResponse{Token: tokenPairToProto(pair)}, nil
}
