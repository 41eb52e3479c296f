package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the server rejects the caller's
	// credentials (HTTP 401 / gRPC Unauthenticated).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the requested resource does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest is returned when the server rejects the request
	// as malformed or not permitted
	ErrInvalidRequest = errors.New("invalid request")
)

// DecodeError indicates a stored access token could not be decoded. This is
// client-side corruption, not expiry; the coordinator never attempts a
// refresh on it.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode token: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RefreshError indicates the server rejected a refresh attempt. The caller
// should force a re-login; the coordinator does not retry.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh rejected: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// TransportError wraps a network or protocol failure. The whole operation
// may be retried by the caller.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
