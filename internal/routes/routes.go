package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/flagforge/flagforge-backend/internal/config"
	"github.com/flagforge/flagforge-backend/internal/handlers"
	"github.com/flagforge/flagforge-backend/internal/middleware"
	"github.com/flagforge/flagforge-backend/internal/store"
	"github.com/flagforge/flagforge-backend/internal/token"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	users store.UserStore,
	teams store.TeamStore,
	ctfs store.CTFStore,
	issuer *token.Issuer,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	teamHandler *handlers.TeamHandler,
	inviteHandler *handlers.InviteHandler,
	ctfHandler *handlers.CTFHandler,
	challengeHandler *handlers.ChallengeHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	v1 := api.Group("/v1")

	// Auth — public, stricter rate limit: 10 req/min per IP
	auth := v1.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	// Everything below requires a verified token plus a live user record.
	authenticated := []fiber.Handler{
		middleware.JWTProtected(cfg),
		middleware.AttachUser(users),
	}

	user := v1.Group("/user", authenticated...)
	user.Get("/", userHandler.GetSelf)
	user.Patch("/", userHandler.Update)
	user.Delete("/", userHandler.Delete)
	user.Get("/:userID", userHandler.GetByID)

	team := v1.Group("/team", authenticated...)
	team.Post("/", teamHandler.Create)

	teamScoped := team.Group("/:teamID", middleware.LoadTeam(teams))
	teamScoped.Get("/", teamHandler.Get)
	teamScoped.Patch("/", teamHandler.Update)
	teamScoped.Delete("/", teamHandler.Delete)
	teamScoped.Post("/invite", teamHandler.CreateInvite)

	ctf := teamScoped.Group("/ctf")
	ctf.Post("/", ctfHandler.Create)
	ctf.Get("/", ctfHandler.List)

	ctfScoped := ctf.Group("/:ctfID", middleware.LoadCTF(ctfs))
	ctfScoped.Get("/", ctfHandler.Get)
	ctfScoped.Post("/archive", ctfHandler.Archive)
	ctfScoped.Post("/unarchive", ctfHandler.Unarchive)

	challenge := ctfScoped.Group("/challenge")
	challenge.Post("/", challengeHandler.Create)
	challenge.Get("/:challengeID", challengeHandler.Get)
	challenge.Patch("/:challengeID", challengeHandler.Update)

	// Invites are viewable anonymously; redeeming requires identity, which
	// the handler enforces.
	invite := v1.Group("/invite", middleware.OptionalUser(users, issuer))
	invite.Get("/:inviteCode", inviteHandler.Get)
	invite.Post("/:inviteCode", inviteHandler.Use)
}
