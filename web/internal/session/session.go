// Package session stores the token pair in an encrypted cookie so every
// browser request can seed a backend client with the user's credentials.
package session

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ZzaizZ/goblog/internal/client"
)

const (
	// SessionName is the name of the session cookie
	SessionName = "goblog_session"

	// accessTokenKey is the session key for the access token
	accessTokenKey = "access_token"

	// refreshTokenKey is the session key for the refresh token
	refreshTokenKey = "refresh_token"
)

// Manager wraps gorilla/sessions for our use case
type Manager struct {
	store *sessions.CookieStore
}

// NewManager creates a new session manager.
// secretKey should be 32 bytes.
func NewManager(secretKey []byte) *Manager {
	store := sessions.NewCookieStore(secretKey)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60, // 30 days
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		store: store,
	}
}

// SetAuthData stores the token pair in the session. The pair is always
// written as a whole.
func (m *Manager) SetAuthData(r *http.Request, w http.ResponseWriter, data client.AuthData) error {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		// Create new session if the cookie is stale or missing
		session, _ = m.store.New(r, SessionName)
	}

	session.Values[accessTokenKey] = data.AccessToken
	session.Values[refreshTokenKey] = data.RefreshToken
	return session.Save(r, w)
}

// GetAuthData retrieves the token pair from the session, or nil when the
// visitor has no session.
func (m *Manager) GetAuthData(r *http.Request) *client.AuthData {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		return nil
	}

	access, ok := session.Values[accessTokenKey].(string)
	if !ok || access == "" {
		return nil
	}
	refresh, _ := session.Values[refreshTokenKey].(string)

	return &client.AuthData{
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

// HasAuthData checks whether the request carries a session token pair
func (m *Manager) HasAuthData(r *http.Request) bool {
	return m.GetAuthData(r) != nil
}

// Clear removes the session (logout)
func (m *Manager) Clear(r *http.Request, w http.ResponseWriter) error {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		return nil // Session doesn't exist, nothing to clear
	}

	session.Options.MaxAge = -1
	return session.Save(r, w)
}
