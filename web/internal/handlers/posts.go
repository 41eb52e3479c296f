package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ZzaizZ/goblog/internal/client"
)

const postsPerPage = 10

// Home renders the post list with pagination
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	c, err := h.getClient(r, w)
	if err != nil {
		h.handleClientError(w, r, err)
		return
	}
	defer c.Close()

	// Fetch one extra to know whether a next page exists
	posts, err := c.ListPosts(r.Context(), page, postsPerPage+1)
	if err != nil {
		h.handleClientError(w, r, err)
		return
	}

	hasNext := len(posts) > postsPerPage
	if hasNext {
		posts = posts[:postsPerPage]
	}

	data := h.newTemplateData(r)
	data["Posts"] = posts
	data["Page"] = page
	data["HasNext"] = hasNext
	h.renderTemplate(w, "home.html", data)
}

// ViewPost renders a single post with its markdown body as HTML
func (h *Handler) ViewPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	c, err := h.getClient(r, w)
	if err != nil {
		h.handleClientError(w, r, err)
		return
	}
	defer c.Close()

	post, err := c.GetPost(r.Context(), id)
	if err != nil {
		h.handleClientError(w, r, err)
		return
	}

	data := h.newTemplateData(r)
	data["Post"] = post
	data["IsAuthor"] = data["UserID"] == post.AuthorID
	h.renderTemplate(w, "post.html", data)
}

// NewPostPage renders the empty post editor
func (h *Handler) NewPostPage(w http.ResponseWriter, r *http.Request) {
	data := h.newTemplateData(r)
	data["Post"] = &client.Post{}
	data["Action"] = "/posts/new"
	h.renderTemplate(w, "edit.html", data)
}

// CreatePost handles the new-post form submission
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := r.FormValue("content")

	c, err := h.getClient(r, w)
	if err != nil {
		h.handleClientError(w, r, err)
		return
	}
	defer c.Close()

	post, err := c.CreatePost(r.Context(), title, content)
	if err != nil {
		data := h.newTemplateData(r)
		data["Post"] = &client.Post{Title: title, Content: content}
		data["Action"] = "/posts/new"
		data["Error"] = "Could not save the post, check that the title is not empty"
		w.WriteHeader(http.StatusBadRequest)
		h.renderTemplate(w, "edit.html", data)
		return
	}

	http.Redirect(w, r, "/posts/"+post.ID, http.StatusSeeOther)
}

// EditPostPage renders the editor pre-filled with the post
func (h *Handler) EditPostPage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	c, err := h.getClient(r, w)
	if err != nil {
		h.handleClientError(w, r, err)
		return
	}
	defer c.Close()

	post, err := c.GetPost(r.Context(), id)
	if err != nil {
		h.handleClientError(w, r, err)
		return
	}

	data := h.newTemplateData(r)
	data["Post"] = post
	data["Action"] = "/posts/" + post.ID + "/edit"
	h.renderTemplate(w, "edit.html", data)
}

// UpdatePost handles the edit form submission
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := r.FormValue("content")

	c, err := h.getClient(r, w)
	if err != nil {
		h.handleClientError(w, r, err)
		return
	}
	defer c.Close()

	post, err := c.UpdatePost(r.Context(), id, title, content)
	if err != nil {
		h.handleClientError(w, r, err)
		return
	}

	http.Redirect(w, r, "/posts/"+post.ID, http.StatusSeeOther)
}

// DeletePost handles the delete form submission
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	c, err := h.getClient(r, w)
	if err != nil {
		h.handleClientError(w, r, err)
		return
	}
	defer c.Close()

	if err := c.DeletePost(r.Context(), id); err != nil {
		h.handleClientError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
