package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"github.com/ZzaizZ/goblog/api/blogpb"
	"github.com/ZzaizZ/goblog/internal/auth"
	"github.com/ZzaizZ/goblog/internal/config"
	"github.com/ZzaizZ/goblog/internal/domain/services"
	"github.com/ZzaizZ/goblog/internal/infrastructure/database/postgres"
	"github.com/ZzaizZ/goblog/internal/pkg/idgen"
	"github.com/ZzaizZ/goblog/internal/pkg/logger"
	"github.com/ZzaizZ/goblog/migrations"
	grpchandlers "github.com/ZzaizZ/goblog/server/internal/grpc/handlers"
	"github.com/ZzaizZ/goblog/server/internal/grpc/interceptors"
	httphandlers "github.com/ZzaizZ/goblog/server/internal/http/handlers"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath    string
		logLevel      string
		logFile       string
		logToStderr   bool
		alsoLogStderr bool
		logFormat     string
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Blog API server",
		Long:  "Serves the blog API over gRPC and REST",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return setupServerLogging(logLevel, logFile, logToStderr, alsoLogStderr, logFormat)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (optional)")

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (if specified, logs to file instead of stderr)")
	cmd.Flags().BoolVar(&logToStderr, "logtostderr", false, "Log to stderr (default behavior unless --log-file specified)")
	cmd.Flags().BoolVar(&alsoLogStderr, "alsologtostderr", false, "Log to both file and stderr")
	cmd.Flags().StringVar(&logFormat, "log-format", "json", "Log format (text, json)")

	return cmd
}

// setupServerLogging configures the global logger for the server
func setupServerLogging(logLevel, logFile string, logToStderr, alsoLogStderr bool, logFormat string) error {
	if logFile == "" {
		logToStderr = true
	}

	cfg := logger.Config{
		Level:         logger.ParseLevel(logLevel),
		LogFile:       logFile,
		LogToStderr:   logToStderr,
		AlsoLogStderr: alsoLogStderr,
		Format:        logFormat,
	}

	globalLogger, err := logger.SetupLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(globalLogger)
	return nil
}

func runServer(configPath string) error {
	log := slog.Default().With(slog.String("component", "server"))
	log.Info("starting server initialization")

	if err := idgen.Initialize(1); err != nil {
		return fmt.Errorf("failed to initialize ID generator: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Info("connecting to PostgreSQL",
		slog.String("host", cfg.Database.Postgres.Host),
		slog.String("database", cfg.Database.Postgres.Database),
		slog.String("user", cfg.Database.Postgres.User))

	pgConn, err := connectWithRetries(log, cfg.Database.Postgres.ConnectionString())
	if err != nil {
		return err
	}
	defer pgConn.Close()

	if err := pgConn.RunMigrations(migrations.FS); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	userRepo := postgres.NewUserRepository(pgConn.DB)
	postRepo := postgres.NewPostRepository(pgConn.DB)

	jwtManager := auth.NewJWTManager(
		cfg.Auth.JWT.SigningKey,
		cfg.Auth.JWT.AccessLifetime,
		cfg.Auth.JWT.RefreshLifetime,
	)

	authService := services.NewAuthService(userRepo, jwtManager)
	postService := services.NewPostService(postRepo)

	grpcServer := newGRPCServer(jwtManager, authService, postService)
	restServer := &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: httphandlers.NewRouter(
			httphandlers.NewAuthHandler(authService),
			httphandlers.NewPostsHandler(postService),
			jwtManager,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcAddr := fmt.Sprintf("%s:%d", cfg.GRPC.Host, cfg.GRPC.Port)
	listener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", grpcAddr, err)
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("gRPC server starting", slog.String("address", grpcAddr))
		if err := grpcServer.Serve(listener); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		log.Info("REST server starting", slog.String("address", restServer.Addr))
		if err := restServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("rest server: %w", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("rest server shutdown failed", slog.String("error", err.Error()))
	}
	grpcServer.GracefulStop()
	log.Info("shutdown complete")
	return nil
}

// connectWithRetries connects to PostgreSQL with exponential backoff, to
// ride out database startup when both come up together
func connectWithRetries(log *slog.Logger, connString string) (*postgres.Connection, error) {
	const maxRetries = 10
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		conn, err := postgres.NewConnection(connString)
		if err == nil {
			log.Info("connected to PostgreSQL")
			return conn, nil
		}

		if i == maxRetries-1 {
			return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", maxRetries, err)
		}

		log.Warn("failed to connect to PostgreSQL",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()),
			slog.Duration("retry_delay", retryDelay))
		time.Sleep(retryDelay)
		retryDelay *= 2
		if retryDelay > 30*time.Second {
			retryDelay = 30 * time.Second
		}
	}
	return nil, fmt.Errorf("unreachable")
}

// newGRPCServer assembles the gRPC server with interceptors and the
// standard infrastructure services
func newGRPCServer(jwtManager *auth.JWTManager, authService *services.AuthService, postService *services.PostService) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.LoggingInterceptor(),
			interceptors.NewAuthInterceptor(jwtManager).Unary(),
		),
		// Keepalive settings to prevent connections from being dropped
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle:     15 * time.Minute,
			MaxConnectionAge:      30 * time.Minute,
			MaxConnectionAgeGrace: 5 * time.Second,
			Time:                  5 * time.Second,
			Timeout:               1 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	)

	blogpb.RegisterBlogServiceServer(grpcServer, grpchandlers.NewBlogHandler(authService, postService))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(grpcServer)

	return grpcServer
}
