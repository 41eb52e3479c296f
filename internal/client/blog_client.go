package client

import "context"

// BlogClient is the transport-agnostic blog API surface. The HTTP and gRPC
// shells both implement it; callers pick a transport at construction time
// and are otherwise indifferent.
type BlogClient interface {
	// Register creates a new account. Does not log in.
	Register(ctx context.Context, username, email, password string) (*User, error)

	// Login authenticates and stores the returned token pair. The
	// returned user is decoded from the access token claims.
	Login(ctx context.Context, username, password string) (*User, error)

	// SetupToken injects a bare access token (no refresh token).
	SetupToken(token string)

	// Token returns the current access token, or "" if none is set
	Token() string

	// SetupAuthData injects a full token pair, e.g. restored from disk
	// or a session cookie
	SetupAuthData(data AuthData)

	// AuthData returns a copy of the current pair, or nil
	AuthData() *AuthData

	// CurrentUser decodes the stored access token, or returns nil when
	// unauthenticated
	CurrentUser() *User

	CreatePost(ctx context.Context, title, content string) (*Post, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	UpdatePost(ctx context.Context, id, title, content string) (*Post, error)
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, page, pageSize int) ([]*Post, error)

	// Close releases transport resources
	Close() error
}
