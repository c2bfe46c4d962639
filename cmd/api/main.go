// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/admin"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/adminauth"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/auth"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/config"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/health"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/identity"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/middleware"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/profile"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/server"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := core.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	identities, err := identity.NewClient(cfg.Supabase)
	if err != nil {
		return err
	}

	sessions, err := auth.NewSessionVerifier(cfg.Supabase)
	if err != nil {
		return err
	}

	profileRepo := profile.NewRepository(db.DB)
	adminauth.ReportSchemaShape(ctx, logger, profileRepo, cfg.Authz)

	authz := adminauth.NewAuthorizer(profileRepo, identities, cfg.Authz,
		adminauth.WithLogger(logger))
	authzHandler := adminauth.NewHandler(authz)

	userSvc := user.NewService(profileRepo, identities, authz, logger)
	userHandler := user.NewHandler(userSvc)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
		health.Dependency{Name: "identity", Checker: identities},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Database: db,
		Redis:    redis,
		Identity: identities,
		Schema:   profileRepo,
		Authz:    authz,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	limit := middleware.LimitFromConfig(cfg.RateLimit)
	rateLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    limit,
		KeyFunc:  middleware.KeyByIP,
		FailOpen: true,
	}).Handler
	principalRateLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    limit,
		KeyFunc:  middleware.KeyByPrincipal,
		FailOpen: true,
	}).Handler

	authenticator := middleware.Authenticator(sessions)
	requireAdmin := middleware.RequireAdmin(authz)
	adminOnly := func(next http.Handler) http.Handler {
		return principalRateLimit(requireAdmin(next))
	}

	router.Route("/api", func(r chi.Router) {
		authzHandler.RegisterRoutes(r, rateLimit)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}
