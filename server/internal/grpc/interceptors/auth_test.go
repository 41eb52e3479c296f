package interceptors

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/ZzaizZ/goblog/internal/auth"
)

func newInterceptor() (*AuthInterceptor, *auth.JWTManager) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthInterceptor(jwtManager), jwtManager
}

func TestIsPublicMethod(t *testing.T) {
	i, _ := newInterceptor()

	assert.True(t, i.isPublicMethod("/goblog.blog.v1.BlogService/Login"))
	assert.True(t, i.isPublicMethod("/goblog.blog.v1.BlogService/RefreshToken"))
	assert.True(t, i.isPublicMethod("/goblog.blog.v1.BlogService/ListPosts"))
	assert.True(t, i.isPublicMethod("/grpc.health.v1.Health/Check"))
	assert.False(t, i.isPublicMethod("/goblog.blog.v1.BlogService/CreatePost"))
}

func TestUnary_AuthenticatedCall(t *testing.T) {
	i, jwtManager := newInterceptor()
	token, _, err := jwtManager.GenerateAccessToken("user-1", "alice")
	require.NoError(t, err)

	ctx := metadata.NewIncomingContext(context.Background(),
		metadata.Pairs("authorization", "Bearer "+token))

	var gotUser *auth.UserContext
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		gotUser, _ = auth.UserFromContext(ctx)
		return nil, nil
	}

	_, err = i.Unary()(ctx, nil,
		&grpc.UnaryServerInfo{FullMethod: "/goblog.blog.v1.BlogService/CreatePost"}, handler)
	require.NoError(t, err)

	require.NotNil(t, gotUser)
	assert.Equal(t, "user-1", gotUser.UserID)
	assert.Equal(t, "alice", gotUser.Username)
}

func TestUnary_MissingToken(t *testing.T) {
	i, _ := newInterceptor()

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler must not run without credentials")
		return nil, nil
	}

	_, err := i.Unary()(context.Background(), nil,
		&grpc.UnaryServerInfo{FullMethod: "/goblog.blog.v1.BlogService/CreatePost"}, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestUnary_ExpiredToken(t *testing.T) {
	i, _ := newInterceptor()
	expired := auth.NewJWTManager("test-secret", -time.Hour, 24*time.Hour)
	token, _, err := expired.GenerateAccessToken("user-1", "alice")
	require.NoError(t, err)

	ctx := metadata.NewIncomingContext(context.Background(),
		metadata.Pairs("authorization", "Bearer "+token))

	_, err = i.Unary()(ctx, nil,
		&grpc.UnaryServerInfo{FullMethod: "/goblog.blog.v1.BlogService/CreatePost"},
		func(ctx context.Context, req interface{}) (interface{}, error) { return nil, nil })
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestUnary_PublicMethodSkipsAuth(t *testing.T) {
	i, _ := newInterceptor()

	called := false
	_, err := i.Unary()(context.Background(), nil,
		&grpc.UnaryServerInfo{FullMethod: "/goblog.blog.v1.BlogService/Login"},
		func(ctx context.Context, req interface{}) (interface{}, error) {
			called = true
			return nil, nil
		})
	require.NoError(t, err)
	assert.True(t, called)
}
