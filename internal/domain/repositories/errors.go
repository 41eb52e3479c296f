package repositories

import "errors"

// Domain-specific repository errors
var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when a username or email is already taken
	ErrUserExists = errors.New("user already exists")

	// ErrPostNotFound is returned when a post cannot be found
	ErrPostNotFound = errors.New("post not found")
)
