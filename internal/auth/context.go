package auth

import "context"

type contextKey string

const userContextKey contextKey = "user"

// UserContext carries the authenticated caller through a request context
type UserContext struct {
	UserID   string
	Username string
}

// SetUserInContext stores the authenticated user in the context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the authenticated user, if any
func UserFromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}
