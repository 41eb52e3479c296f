package client

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultRefreshBuffer is how long before expiry a token is considered
// stale. Refreshing slightly early avoids a request being rejected
// mid-flight by a token that expires while in transit.
const DefaultRefreshBuffer = 300 * time.Second

// RefreshFunc exchanges a refresh token for a new pair. Each transport
// shell supplies its own implementation.
type RefreshFunc func(ctx context.Context, refreshToken string) (AuthData, error)

// UpdateFunc is notified after every successful token replacement, letting
// callers persist the new pair (to a credentials file, a session cookie).
type UpdateFunc func(data AuthData)

// TokenManager owns the token pair and coordinates refresh so that
// concurrent callers sharing one client handle trigger at most one
// in-flight refresh at a time.
type TokenManager struct {
	store     *TokenStore
	refreshMu sync.Mutex // guards refresh execution, distinct from the store lock
	buffer    time.Duration
	onUpdate  UpdateFunc
	log       *slog.Logger
}

// TokenManagerOption configures a TokenManager
type TokenManagerOption func(*TokenManager)

// WithRefreshBuffer overrides the staleness buffer
func WithRefreshBuffer(buffer time.Duration) TokenManagerOption {
	return func(m *TokenManager) {
		m.buffer = buffer
	}
}

// WithUpdateFunc registers a hook invoked after every successful token
// replacement, including direct Set calls
func WithUpdateFunc(fn UpdateFunc) TokenManagerOption {
	return func(m *TokenManager) {
		m.onUpdate = fn
	}
}

// NewTokenManager creates an empty token manager
func NewTokenManager(opts ...TokenManagerOption) *TokenManager {
	m := &TokenManager{
		store:  NewTokenStore(),
		buffer: DefaultRefreshBuffer,
		log:    slog.Default().With(slog.String("component", "token_manager")),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Set replaces the stored pair and fires the update hook
func (m *TokenManager) Set(data AuthData) {
	m.store.Set(data)
	if m.onUpdate != nil {
		m.onUpdate(data)
	}
}

// Clear removes the stored pair
func (m *TokenManager) Clear() {
	m.store.Clear()
}

// Get returns a copy of the stored pair, or nil if none is set
func (m *TokenManager) Get() *AuthData {
	return m.store.Get()
}

// AccessToken returns the current access token, or "" if none is set
func (m *TokenManager) AccessToken() string {
	return m.store.AccessToken()
}

// RefreshToken returns the current refresh token, or "" if none is set
func (m *TokenManager) RefreshToken() string {
	return m.store.RefreshToken()
}

// EnsureValidToken guarantees that, on a nil return, the stored access
// token (if any) is not within the staleness buffer of expiry.
//
// The common case (valid token) is decided on the store's read lock alone
// and never touches the refresh mutex. When the token is stale, callers
// serialize on the refresh mutex and re-check freshness after acquiring
// it, so N concurrent stale callers collapse into exactly one refreshFn
// call; the rest observe the refreshed pair and return without a network
// round trip.
//
// With no pair stored it returns nil: an unauthenticated client is a valid
// state here, and the server rejects calls that actually need credentials.
func (m *TokenManager) EnsureValidToken(ctx context.Context, refreshFn RefreshFunc) error {
	data := m.store.Get()
	if data == nil {
		return nil
	}

	claims, err := DecodeToken(data.AccessToken)
	if err != nil {
		// An undecodable token is corruption, not expiry. Refreshing
		// would mask the real problem.
		return err
	}

	if !claims.ExpiresSoon(m.buffer) {
		return nil
	}

	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	// Re-check: another caller may have refreshed while we waited.
	data = m.store.Get()
	if data == nil {
		return nil
	}
	claims, err = DecodeToken(data.AccessToken)
	if err != nil {
		return err
	}
	if !claims.ExpiresSoon(m.buffer) {
		return nil
	}

	m.log.Debug("access token stale, refreshing",
		slog.Time("expires_at", claims.ExpiresAt))

	fresh, err := refreshFn(ctx, data.RefreshToken)
	if err != nil {
		m.log.Warn("token refresh failed", slog.String("error", err.Error()))
		return err
	}

	m.Set(fresh)
	m.log.Debug("access token refreshed")
	return nil
}
