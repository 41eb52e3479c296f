package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ZzaizZ/goblog/internal/client"
	"github.com/ZzaizZ/goblog/web/internal/render"
	"github.com/ZzaizZ/goblog/web/internal/session"
)

// Handler holds dependencies for all web handlers
type Handler struct {
	backendAddress string
	serverName     string
	sessions       *session.Manager
	templates      *render.TemplateSet
	log            *slog.Logger
}

// New creates a new handler with dependencies
func New(backendAddress, serverName string, sessions *session.Manager, templates *render.TemplateSet) *Handler {
	return &Handler{
		backendAddress: backendAddress,
		serverName:     serverName,
		sessions:       sessions,
		templates:      templates,
		log:            slog.Default().With(slog.String("component", "web_handler")),
	}
}

// getClient creates a per-request backend client seeded with the session's
// token pair. Refreshed pairs are written back into the session cookie
// through the update hook, so the browser keeps the newest tokens.
// gRPC pools connections under the hood, so per-request clients are cheap.
func (h *Handler) getClient(r *http.Request, w http.ResponseWriter) (client.BlogClient, error) {
	persist := client.WithUpdateFunc(func(data client.AuthData) {
		if err := h.sessions.SetAuthData(r, w, data); err != nil {
			h.log.Warn("failed to persist session tokens", "error", err)
		}
	})

	c, err := client.NewGRPCClient(h.backendAddress, h.serverName, persist)
	if err != nil {
		return nil, err
	}

	if auth := h.sessions.GetAuthData(r); auth != nil {
		c.SetupAuthData(*auth)
	}

	return c, nil
}

// newTemplateData creates a template data map with standard fields populated.
// Callers add page-specific fields to the returned map.
func (h *Handler) newTemplateData(r *http.Request) map[string]interface{} {
	data := map[string]interface{}{
		"LoggedIn": h.sessions.HasAuthData(r),
	}

	if auth := h.sessions.GetAuthData(r); auth != nil {
		if claims, err := client.DecodeToken(auth.AccessToken); err == nil {
			data["Username"] = claims.Username
			data["UserID"] = claims.Subject
		}
	}

	return data
}

// renderTemplate renders a page template with data
func (h *Handler) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.Execute(w, name, data); err != nil {
		h.log.Error("template rendering failed",
			slog.String("template", name),
			slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleClientError translates backend errors into browser responses
func (h *Handler) handleClientError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		// Stale session, make the visitor log in again
		h.sessions.Clear(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, client.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, client.ErrInvalidRequest):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	default:
		h.log.Error("backend request failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
