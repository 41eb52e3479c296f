// Package rest defines the JSON request and response bodies of the blog
// REST API. The types are shared between the server handlers and the HTTP
// client so the two sides cannot drift apart.
package rest

// RegisterRequest is the body of POST /api/v1/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshTokenRequest is the body of POST /api/v1/auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse carries a freshly issued access/refresh token pair.
// Returned by both login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// CreatePostRequest is the body of POST /api/v1/posts.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdatePostRequest is the body of PUT /api/v1/posts/{id}.
type UpdatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PostResponse is the JSON representation of a single post.
type PostResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Content   string `json:"content"`
	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"` // RFC 3339
	UpdatedAt string `json:"updated_at"` // RFC 3339
}

// ErrorResponse is the JSON body sent with non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}
