package services

import "errors"

// Service-level errors, mapped onto transport codes by the handlers
var (
	// ErrUserExists is returned when registering a taken username or email
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned on bad username/password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRefreshToken is returned when a refresh token is rejected
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrPostNotFound is returned when a post does not exist
	ErrPostNotFound = errors.New("post not found")

	// ErrForbidden is returned when a user acts on someone else's post
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned on structurally invalid input
	ErrValidation = errors.New("validation failed")
)
