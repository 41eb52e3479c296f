package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ZzaizZ/goblog/api/rest"
	"github.com/ZzaizZ/goblog/internal/auth"
	"github.com/ZzaizZ/goblog/internal/domain/services"
)

// PostsHandler serves the /api/v1/posts endpoints
type PostsHandler struct {
	postService *services.PostService
	log         *slog.Logger
}

// NewPostsHandler creates the posts REST handler
func NewPostsHandler(postService *services.PostService) *PostsHandler {
	return &PostsHandler{
		postService: postService,
		log:         slog.Default().With(slog.String("handler", "posts_rest")),
	}
}

// Create handles POST /api/v1/posts
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req rest.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), user.UserID, req.Title, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, postToResponse(post))
}

// Get handles GET /api/v1/posts/{id}. Public.
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := services.ValidateUUID(id); err != nil {
		writeServiceError(w, err)
		return
	}

	post, err := h.postService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postToResponse(post))
}

// Update handles PUT /api/v1/posts/{id}. Author only.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id := mux.Vars(r)["id"]
	if err := services.ValidateUUID(id); err != nil {
		writeServiceError(w, err)
		return
	}

	var req rest.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.postService.Update(r.Context(), user.UserID, id, req.Title, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postToResponse(post))
}

// Delete handles DELETE /api/v1/posts/{id}. Author only.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id := mux.Vars(r)["id"]
	if err := services.ValidateUUID(id); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.postService.Delete(r.Context(), user.UserID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/v1/posts. Public.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	posts, err := h.postService.List(r.Context(), page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]rest.PostResponse, len(posts))
	for i, post := range posts {
		resp[i] = postToResponse(post)
	}
	writeJSON(w, http.StatusOK, resp)
}
