// Package handlers implements the REST API on top of the domain services.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ZzaizZ/goblog/api/rest"
	"github.com/ZzaizZ/goblog/internal/domain/entities"
	"github.com/ZzaizZ/goblog/internal/domain/services"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, rest.ErrorResponse{Error: message})
}

// writeServiceError maps domain service errors to HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUserExists):
		writeError(w, http.StatusConflict, "user already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrInvalidRefreshToken):
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
	case errors.Is(err, services.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "post not found")
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "not the author")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func postToResponse(post *entities.Post) rest.PostResponse {
	return rest.PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Slug:      post.Slug,
		Content:   post.Content,
		AuthorID:  post.AuthorID,
		CreatedAt: post.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: post.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
