package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/config"
	"github.com/flagforge/flagforge-backend/internal/database"
	"github.com/flagforge/flagforge-backend/internal/handlers"
	"github.com/flagforge/flagforge-backend/internal/logging"
	"github.com/flagforge/flagforge-backend/internal/middleware"
	"github.com/flagforge/flagforge-backend/internal/routes"
	"github.com/flagforge/flagforge-backend/internal/services"
	"github.com/flagforge/flagforge-backend/internal/store"
	"github.com/flagforge/flagforge-backend/internal/token"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using system environment variables")
	}

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Stores
	users := store.NewGormUserStore(database.DB)
	tokens := store.NewGormRefreshTokenStore(database.DB)
	teams := store.NewGormTeamStore(database.DB)
	ctfs := store.NewGormCTFStore(database.DB)
	challenges := store.NewGormChallengeStore(database.DB)

	// Services
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTAccessExpiry)
	notepad := services.NewNotepadClient(cfg.HedgeDocURL, cfg.HedgeDocTimeout)
	authService := services.NewAuthService(users, tokens, issuer, cfg.RefreshExpiry, cfg.BcryptCost)
	userService := services.NewUserService(users, teams, tokens, cfg.BcryptCost)
	teamService := services.NewTeamService(teams)
	ctfService := services.NewCTFService(ctfs, notepad)
	challengeService := services.NewChallengeService(challenges, notepad)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.RefreshExpiry)
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService)
	inviteHandler := handlers.NewInviteHandler(teamService)
	ctfHandler := handlers.NewCTFHandler(ctfService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	healthHandler := handlers.NewHealthHandler()

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: apperr.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	routes.Setup(app, cfg, users, teams, ctfs, issuer,
		authHandler, userHandler, teamHandler, inviteHandler, ctfHandler, challengeHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
