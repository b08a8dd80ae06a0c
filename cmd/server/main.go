// Package main is the entry point for the Daybreak blog server.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daybreakhq/daybreak/internal/config"
	"github.com/daybreakhq/daybreak/internal/database"
	"github.com/daybreakhq/daybreak/internal/handler/web"
	"github.com/daybreakhq/daybreak/internal/mailer"
	"github.com/daybreakhq/daybreak/internal/middleware"
	"github.com/daybreakhq/daybreak/internal/pkg/response"
	"github.com/daybreakhq/daybreak/internal/repository"
	"github.com/daybreakhq/daybreak/internal/service"
	"github.com/daybreakhq/daybreak/internal/validation"
)

func main() {
	// Setup structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger.Info("Starting Daybreak",
		slog.String("environment", cfg.Server.Environment),
		slog.Int("port", cfg.Server.Port),
	)

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	// Run migrations
	if err := db.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations completed")

	// Connect to Redis
	redis, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()
	logger.Info("Connected to Redis")

	// Mail gateway
	sender, err := mailer.NewSMTPSender(cfg.Mail)
	if err != nil {
		log.Fatalf("Failed to configure mail client: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.Pool())
	sessionRepo := repository.NewSessionRepository(db.Pool())
	postRepo := repository.NewPostRepository(db.Pool())
	commentRepo := repository.NewCommentRepository(db.Pool())

	// Services
	hasher := service.NewPasswordHasher(cfg.Auth.BcryptCost)
	authService := service.NewAuthService(userRepo, sessionRepo, hasher, cfg.Auth.SessionExpiry)
	recoveryStore := service.NewRedisRecoveryStore(redis, cfg.Auth.RecoveryExpiry)
	recoveryService := service.NewRecoveryService(userRepo, recoveryStore, sender)
	postService := service.NewPostService(postRepo, commentRepo)

	// Cookie store for the signed session and recovery cookies
	cookieStore := sessions.NewCookieStore([]byte(cfg.Auth.SessionSecret))
	cookieStore.Options.HttpOnly = true
	cookieStore.Options.SameSite = http.SameSiteLaxMode

	webHandler := web.NewWebHandler(
		logger,
		authService,
		recoveryService,
		postService,
		validation.New(),
		cookieStore,
		sender,
		web.Config{
			AdminEmail:  cfg.Auth.AdminEmail,
			ContactTo:   cfg.Mail.ContactTo,
			PacingDelay: cfg.Server.PacingDelay,
		},
	)

	// Root context cancelled on shutdown; stops background refreshers
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Hourly sweep of expired session rows
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-appCtx.Done():
				return
			case <-ticker.C:
				n, err := authService.PurgeExpiredSessions(appCtx)
				if err != nil {
					logger.Error("session sweep failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Info("expired sessions purged", slog.Int64("count", n))
				}
			}
		}
	}()

	// Setup router
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.Compress())
	r.Use(middleware.Metrics(appCtx))
	r.Use(middleware.RateLimit(redis, middleware.DefaultRateLimitConfig()))

	// Readiness and metrics endpoints
	r.Get("/ready", readyHandler(db, redis))
	r.Handle("/metrics", promhttp.Handler())

	// Web pages
	r.Mount("/", webHandler.Routes())

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  time.Minute,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("Shutting down server", slog.String("signal", sig.String()))

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	logger.Info("Server stopped gracefully")
}

// readyHandler returns a readiness check that verifies database and Redis connections.
func readyHandler(db *database.Postgres, redis *database.Redis) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			response.JSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "error", "component": "database",
			})
			return
		}

		if err := redis.Ping(ctx); err != nil {
			response.JSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "error", "component": "redis",
			})
			return
		}

		response.OK(w, map[string]string{
			"status": "ok", "database": "connected", "redis": "connected",
		})
	}
}
