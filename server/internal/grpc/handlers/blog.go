// Package handlers implements the BlogService gRPC surface on top of the
// domain services.
package handlers

import (
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ZzaizZ/goblog/api/blogpb"
	"github.com/ZzaizZ/goblog/internal/domain/entities"
	"github.com/ZzaizZ/goblog/internal/domain/services"
)

// BlogHandler implements blogpb.BlogServiceServer
type BlogHandler struct {
	blogpb.UnimplementedBlogServiceServer

	authService *services.AuthService
	postService *services.PostService
	log         *slog.Logger
}

// NewBlogHandler creates the gRPC handler
func NewBlogHandler(authService *services.AuthService, postService *services.PostService) *BlogHandler {
	return &BlogHandler{
		authService: authService,
		postService: postService,
		log:         slog.Default().With(slog.String("handler", "blog_grpc")),
	}
}

// serviceError maps domain service errors to gRPC status codes
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, services.ErrUserExists):
		return status.Error(codes.AlreadyExists, "user already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "invalid credentials")
	case errors.Is(err, services.ErrInvalidRefreshToken):
		return status.Error(codes.Unauthenticated, "invalid refresh token")
	case errors.Is(err, services.ErrPostNotFound):
		return status.Error(codes.NotFound, "post not found")
	case errors.Is(err, services.ErrForbidden):
		return status.Error(codes.PermissionDenied, "not the author")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// postToProto converts a domain post to its wire form
func postToProto(post *entities.Post) *blogpb.Post {
	return &blogpb.Post{
		Id:        post.ID,
		Title:     post.Title,
		Slug:      post.Slug,
		Content:   post.Content,
		AuthorId:  post.AuthorID,
		CreatedAt: post.CreatedAt.Unix(),
		UpdatedAt: post.UpdatedAt.Unix(),
	}
}

// tokenPairToProto converts an issued pair to its wire form
func tokenPairToProto(pair *services.TokenPair) *blogpb.TokenPair {
	return &blogpb.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}
}
