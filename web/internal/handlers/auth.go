package handlers

import (
	"net/http"
	"strings"
)

// LoginPage renders the login form
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.sessions.HasAuthData(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := h.newTemplateData(r)
	data["Next"] = r.URL.Query().Get("next")
	h.renderTemplate(w, "login.html", data)
}

// Login handles the login form submission
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	c, err := h.getClient(r, w)
	if err != nil {
		h.handleClientError(w, r, err)
		return
	}
	defer c.Close()

	// Login stores the pair on the client; the update hook writes it
	// into the session cookie.
	if _, err := c.Login(r.Context(), username, password); err != nil {
		h.log.Info("login failed", "username", username, "error", err)
		data := h.newTemplateData(r)
		data["Error"] = "Invalid username or password"
		data["Username"] = username
		data["Next"] = r.FormValue("next")
		w.WriteHeader(http.StatusUnauthorized)
		h.renderTemplate(w, "login.html", data)
		return
	}

	next := r.FormValue("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// RegisterPage renders the registration form
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if h.sessions.HasAuthData(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderTemplate(w, "register.html", h.newTemplateData(r))
}

// Register handles the registration form submission, then logs the new
// account in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	c, err := h.getClient(r, w)
	if err != nil {
		h.handleClientError(w, r, err)
		return
	}
	defer c.Close()

	if _, err := c.Register(r.Context(), username, email, password); err != nil {
		h.log.Info("registration failed", "username", username, "error", err)
		data := h.newTemplateData(r)
		data["Error"] = "Registration failed, the username or email may be taken"
		data["Username"] = username
		data["Email"] = email
		w.WriteHeader(http.StatusBadRequest)
		h.renderTemplate(w, "register.html", data)
		return
	}

	if _, err := c.Login(r.Context(), username, password); err != nil {
		// Account exists but login failed, send them to the form
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session and redirects home
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(r, w); err != nil {
		h.log.Warn("failed to clear session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
