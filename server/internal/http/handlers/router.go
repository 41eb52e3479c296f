package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ZzaizZ/goblog/internal/auth"
	"github.com/ZzaizZ/goblog/server/internal/http/middleware"
)

// NewRouter builds the REST routing table. Reads and the auth endpoints
// are public; post mutations sit behind the bearer-auth middleware.
func NewRouter(authHandler *AuthHandler, postsHandler *PostsHandler, jwtManager *auth.JWTManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)

	api.HandleFunc("/posts", postsHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}", postsHandler.Get).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.RequireAuth(jwtManager))
	authed.HandleFunc("/posts", postsHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/posts/{id}", postsHandler.Update).Methods(http.MethodPut)
	authed.HandleFunc("/posts/{id}", postsHandler.Delete).Methods(http.MethodDelete)

	return r
}
