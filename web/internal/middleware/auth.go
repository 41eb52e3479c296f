package middleware

import (
	"net/http"
	"net/url"

	"github.com/ZzaizZ/goblog/web/internal/session"
)

// AuthMiddleware redirects anonymous visitors to the login page.
// Token refresh is handled by the per-request backend clients.
type AuthMiddleware struct {
	sessions *session.Manager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// RequireAuth redirects to /login when the request has no session pair,
// preserving the original destination in the "next" query parameter.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.sessions.HasAuthData(r) {
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
