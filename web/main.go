package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/ZzaizZ/goblog/internal/pkg/logger"
	"github.com/ZzaizZ/goblog/web/internal/config"
	"github.com/ZzaizZ/goblog/web/internal/handlers"
	"github.com/ZzaizZ/goblog/web/internal/middleware"
	"github.com/ZzaizZ/goblog/web/internal/render"
	"github.com/ZzaizZ/goblog/web/internal/session"
	"github.com/ZzaizZ/goblog/web/templates"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "web",
		Short:         "goblog web front-end",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeb(configPath)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupWebLogging configures the global logger for the web service
func setupWebLogging(logLevel, logFormat string) error {
	cfg := logger.Config{
		Level:       logger.ParseLevel(logLevel),
		LogToStderr: true, // Web service always logs to stderr
		Format:      logFormat,
	}

	globalLogger, err := logger.SetupLogger(cfg)
	if err != nil {
		return err
	}

	slog.SetDefault(globalLogger)
	return nil
}

func runWeb(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := setupWebLogging(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	log := slog.Default().With(slog.String("component", "web"))
	log.Info("starting goblog web front-end")

	tmpl, err := render.LoadTemplates(templates.FS)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	log.Debug("templates loaded", slog.Any("pages", tmpl.Names()))

	sessionSecret, err := resolveSessionSecret(cfg, log)
	if err != nil {
		return err
	}

	sessionMgr := session.NewManager(sessionSecret)
	authMw := middleware.NewAuthMiddleware(sessionMgr)
	h := handlers.New(cfg.Backend.Address, cfg.Backend.ServerName, sessionMgr, tmpl)

	router := createRouter(h, authMw)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("web server listening", slog.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("web server failed: %w", err)
	case sig := <-sigCh:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

// resolveSessionSecret picks the cookie secret.
// Priority: env var, then config file, then a random one for development.
func resolveSessionSecret(cfg *config.WebConfig, log *slog.Logger) ([]byte, error) {
	if envSecret := os.Getenv("SESSION_SECRET"); envSecret != "" {
		secret, err := base64.StdEncoding.DecodeString(envSecret)
		if err == nil {
			return secret, nil
		}
		log.Warn("failed to decode SESSION_SECRET env var, trying config", slog.Any("error", err))
	}

	if cfg.Session.Secret != "" {
		secret, err := base64.StdEncoding.DecodeString(cfg.Session.Secret)
		if err == nil {
			return secret, nil
		}
		log.Warn("failed to decode session secret from config", slog.Any("error", err))
	}

	log.Warn("no session secret configured, generating random one (sessions won't persist)")
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	return secret, nil
}

// createRouter sets up the HTTP router with all routes and middleware
func createRouter(h *handlers.Handler, authMw *middleware.AuthMiddleware) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	// Public routes
	router.HandleFunc("/", h.Home).Methods(http.MethodGet)
	router.HandleFunc("/login", h.LoginPage).Methods(http.MethodGet)
	router.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/register", h.RegisterPage).Methods(http.MethodGet)
	router.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	router.HandleFunc("/logout", h.Logout).Methods(http.MethodGet, http.MethodPost)

	// Editing routes require a session
	router.Handle("/posts/new", authMw.RequireAuth(http.HandlerFunc(h.NewPostPage))).Methods(http.MethodGet)
	router.Handle("/posts/new", authMw.RequireAuth(http.HandlerFunc(h.CreatePost))).Methods(http.MethodPost)
	router.Handle("/posts/{id}/edit", authMw.RequireAuth(http.HandlerFunc(h.EditPostPage))).Methods(http.MethodGet)
	router.Handle("/posts/{id}/edit", authMw.RequireAuth(http.HandlerFunc(h.UpdatePost))).Methods(http.MethodPost)
	router.Handle("/posts/{id}/delete", authMw.RequireAuth(http.HandlerFunc(h.DeletePost))).Methods(http.MethodPost)

	// Post view last so /posts/new wins
	router.HandleFunc("/posts/{id}", h.ViewPost).Methods(http.MethodGet)

	return middleware.LogRequest(router)
}
