package interceptors

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/ZzaizZ/goblog/internal/auth"
)

// AuthInterceptor handles authentication for gRPC requests
type AuthInterceptor struct {
	jwtManager *auth.JWTManager
	log        *slog.Logger
	// Methods that don't require authentication
	publicMethods map[string]bool
	// Method prefixes that don't require authentication (e.g., "/grpc." for infrastructure)
	publicPrefixes []string
}

// NewAuthInterceptor creates a new auth interceptor
func NewAuthInterceptor(jwtManager *auth.JWTManager) *AuthInterceptor {
	return &AuthInterceptor{
		jwtManager: jwtManager,
		log:        slog.Default().With(slog.String("component", "auth_interceptor")),
		publicMethods: map[string]bool{
			"/goblog.blog.v1.BlogService/Register":     true,
			"/goblog.blog.v1.BlogService/Login":        true,
			"/goblog.blog.v1.BlogService/RefreshToken": true, // refresh presents its own credential
			"/goblog.blog.v1.BlogService/GetPost":      true, // reads are public
			"/goblog.blog.v1.BlogService/ListPosts":    true,
		},
		publicPrefixes: []string{
			"/grpc.", // standard gRPC infrastructure (health, reflection)
		},
	}
}

// isPublicMethod checks if a method is publicly accessible
func (i *AuthInterceptor) isPublicMethod(method string) bool {
	if i.publicMethods[method] {
		return true
	}
	for _, prefix := range i.publicPrefixes {
		if strings.HasPrefix(method, prefix) {
			return true
		}
	}
	return false
}

// Unary returns a server interceptor for unary RPCs
func (i *AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if i.isPublicMethod(info.FullMethod) {
			return handler(ctx, req)
		}

		userCtx, err := i.authenticate(ctx)
		if err != nil {
			return nil, err
		}

		ctx = auth.SetUserInContext(ctx, userCtx)
		return handler(ctx, req)
	}
}

// authenticate extracts and validates the bearer token
func (i *AuthInterceptor) authenticate(ctx context.Context) (*auth.UserContext, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing metadata")
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing authorization token")
	}

	authHeader := values[0]
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, status.Error(codes.Unauthenticated, "invalid authorization format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := i.jwtManager.ValidateToken(token)
	if err != nil {
		i.log.Debug("token validation failed", slog.String("error", err.Error()))
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	return &auth.UserContext{
		UserID:   claims.Subject,
		Username: claims.Username,
	}, nil
}
