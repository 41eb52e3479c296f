package client

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/ZzaizZ/goblog/api/blogpb"
)

// publicMethods do not carry credentials and bypass the refresh
// coordinator. RefreshToken must be here or refreshing would recurse
// through the interceptor.
var publicMethods = map[string]bool{
	"/goblog.blog.v1.BlogService/Register":     true,
	"/goblog.blog.v1.BlogService/Login":        true,
	"/goblog.blog.v1.BlogService/RefreshToken": true,
}

// AuthInterceptor attaches bearer credentials to outgoing calls, running
// the refresh coordinator first so the attached token is always fresh
type AuthInterceptor struct {
	tokens *TokenManager
}

// NewAuthInterceptor creates a new auth interceptor
func NewAuthInterceptor(tokens *TokenManager) *AuthInterceptor {
	return &AuthInterceptor{tokens: tokens}
}

// Unary returns a gRPC unary client interceptor
func (a *AuthInterceptor) Unary() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		if publicMethods[method] {
			return invoker(ctx, method, req, reply, cc, opts...)
		}

		// Refresh over the same connection; the RefreshToken call
		// re-enters this interceptor but takes the public path above.
		refreshFn := func(ctx context.Context, refreshToken string) (AuthData, error) {
			resp, err := blogpb.NewBlogServiceClient(cc).RefreshToken(ctx, &blogpb.RefreshTokenRequest{
				RefreshToken: refreshToken,
			})
			if err != nil {
				return AuthData{}, &RefreshError{Err: err}
			}
			return AuthData{
				AccessToken:  resp.GetToken().GetAccessToken(),
				RefreshToken: resp.GetToken().GetRefreshToken(),
			}, nil
		}

		if err := a.tokens.EnsureValidToken(ctx, refreshFn); err != nil {
			return err
		}

		if token := a.tokens.AccessToken(); token != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
		}

		return invoker(ctx, method, req, reply, cc, opts...)
	}
}
