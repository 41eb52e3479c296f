// Package client implements the transport-agnostic blog client: a token
// store and refresh coordinator shared by the HTTP and gRPC shells, plus
// the shells themselves.
package client

import "time"

// AuthData is an access/refresh token pair. It is only ever replaced as a
// whole, never patched field by field.
type AuthData struct {
	AccessToken  string
	RefreshToken string
}

// User is the client-side view of an account
type User struct {
	ID       string
	Username string
	Email    string
}

// Post is the client-side view of a blog post
type Post struct {
	ID        string
	Title     string
	Slug      string
	Content   string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
