package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"

	"github.com/ZzaizZ/goblog/api/blogpb"
)

// GRPCClient talks to the blog gRPC API. Token freshness is handled by the
// unary interceptor, so the per-method bodies only translate types.
type GRPCClient struct {
	conn   *grpc.ClientConn
	blog   blogpb.BlogServiceClient
	tokens *TokenManager
	log    *slog.Logger
}

var _ BlogClient = (*GRPCClient)(nil)

// NewGRPCClient creates a gRPC client with automatic token refresh.
// If serverName is not empty, it is used as the remote peer name for TLS.
func NewGRPCClient(serverAddress string, serverName string, tokenOpts ...TokenManagerOption) (*GRPCClient, error) {
	tokens := NewTokenManager(tokenOpts...)

	opts := []grpc.DialOption{
		// Keep connections alive to prevent EOF errors
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                10 * time.Second,
			Timeout:             3 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.WithUnaryInterceptor(NewAuthInterceptor(tokens).Unary()),
	}

	// Auto-detect TLS based on server address: TLS for production hosts,
	// insecure for localhost
	if isLocalhost(serverAddress) {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	} else {
		// Extract server name for SNI (remove port if present)
		if serverName == "" {
			if idx := strings.LastIndex(serverAddress, ":"); idx != -1 {
				serverName = serverAddress[:idx]
			}
		}

		creds := credentials.NewTLS(&tls.Config{
			ServerName: serverName,
			MinVersion: tls.VersionTLS12,
		})
		opts = append(opts, grpc.WithTransportCredentials(creds))
	}

	conn, err := grpc.NewClient(serverAddress, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to gRPC server: %w", err)
	}

	return &GRPCClient{
		conn:   conn,
		blog:   blogpb.NewBlogServiceClient(conn),
		tokens: tokens,
		log:    slog.Default().With(slog.String("component", "grpc_client")),
	}, nil
}

// isLocalhost checks if an address is localhost/127.0.0.1 or a
// cluster-internal address
func isLocalhost(address string) bool {
	lower := strings.ToLower(address)
	return strings.Contains(lower, "localhost") ||
		strings.Contains(lower, "127.0.0.1") ||
		strings.HasPrefix(lower, "::1") ||
		strings.HasPrefix(lower, "[::1]") ||
		// service names without dots are cluster-internal
		!strings.Contains(address, ".")
}

// TokenManager exposes the underlying token manager
func (c *GRPCClient) TokenManager() *TokenManager {
	return c.tokens
}

// Register creates a new account
func (c *GRPCClient) Register(ctx context.Context, username, email, password string) (*User, error) {
	resp, err := c.blog.Register(ctx, &blogpb.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, grpcToError(err)
	}
	return &User{ID: resp.GetUserId(), Username: username, Email: email}, nil
}

// Login authenticates and stores the returned pair
func (c *GRPCClient) Login(ctx context.Context, username, password string) (*User, error) {
	resp, err := c.blog.Login(ctx, &blogpb.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, grpcToError(err)
	}

	c.tokens.Set(AuthData{
		AccessToken:  resp.GetToken().GetAccessToken(),
		RefreshToken: resp.GetToken().GetRefreshToken(),
	})

	claims, err := DecodeToken(resp.GetToken().GetAccessToken())
	if err != nil {
		return nil, err
	}
	return &User{ID: claims.Subject, Username: claims.Username}, nil
}

// SetupToken injects a bare access token
func (c *GRPCClient) SetupToken(token string) {
	c.tokens.Set(AuthData{AccessToken: token})
}

// Token returns the current access token
func (c *GRPCClient) Token() string {
	return c.tokens.AccessToken()
}

// SetupAuthData injects a full token pair
func (c *GRPCClient) SetupAuthData(data AuthData) {
	c.tokens.Set(data)
}

// AuthData returns a copy of the current pair, or nil
func (c *GRPCClient) AuthData() *AuthData {
	return c.tokens.Get()
}

// CurrentUser decodes the stored access token
func (c *GRPCClient) CurrentUser() *User {
	token := c.tokens.AccessToken()
	if token == "" {
		return nil
	}
	claims, err := DecodeToken(token)
	if err != nil {
		return nil
	}
	return &User{ID: claims.Subject, Username: claims.Username}
}

// CreatePost creates a post owned by the authenticated user
func (c *GRPCClient) CreatePost(ctx context.Context, title, content string) (*Post, error) {
	resp, err := c.blog.CreatePost(ctx, &blogpb.CreatePostRequest{
		Title:   title,
		Content: content,
	})
	if err != nil {
		return nil, grpcToError(err)
	}
	return postFromProto(resp.GetPost()), nil
}

// GetPost fetches a single post
func (c *GRPCClient) GetPost(ctx context.Context, id string) (*Post, error) {
	resp, err := c.blog.GetPost(ctx, &blogpb.GetPostRequest{Id: id})
	if err != nil {
		return nil, grpcToError(err)
	}
	return postFromProto(resp.GetPost()), nil
}

// UpdatePost replaces a post's title and content
func (c *GRPCClient) UpdatePost(ctx context.Context, id, title, content string) (*Post, error) {
	resp, err := c.blog.UpdatePost(ctx, &blogpb.UpdatePostRequest{
		Id:      id,
		Title:   title,
		Content: content,
	})
	if err != nil {
		return nil, grpcToError(err)
	}
	return postFromProto(resp.GetPost()), nil
}

// DeletePost removes a post
func (c *GRPCClient) DeletePost(ctx context.Context, id string) error {
	_, err := c.blog.DeletePost(ctx, &blogpb.DeletePostRequest{Id: id})
	if err != nil {
		return grpcToError(err)
	}
	return nil
}

// ListPosts returns a page of posts, newest first
func (c *GRPCClient) ListPosts(ctx context.Context, page, pageSize int) ([]*Post, error) {
	resp, err := c.blog.ListPosts(ctx, &blogpb.ListPostsRequest{
		Page:     int32(page),
		PageSize: int32(pageSize),
	})
	if err != nil {
		return nil, grpcToError(err)
	}
	posts := make([]*Post, len(resp.GetPosts()))
	for i, p := range resp.GetPosts() {
		posts[i] = postFromProto(p)
	}
	return posts, nil
}

// Close closes the gRPC connection
func (c *GRPCClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// postFromProto converts a wire post to the client post type
func postFromProto(p *blogpb.Post) *Post {
	if p == nil {
		return nil
	}
	return &Post{
		ID:        p.GetId(),
		Title:     p.GetTitle(),
		Slug:      p.GetSlug(),
		Content:   p.GetContent(),
		AuthorID:  p.GetAuthorId(),
		CreatedAt: time.Unix(p.GetCreatedAt(), 0).UTC(),
		UpdatedAt: time.Unix(p.GetUpdatedAt(), 0).UTC(),
	}
}

// grpcToError maps a gRPC status to the shared client error set
func grpcToError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return &TransportError{Err: err}
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument, codes.AlreadyExists, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, st.Message())
	default:
		return &TransportError{Err: err}
	}
}
