package middleware

import (
	"errors"
	"strings"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/config"
	"github.com/flagforge/flagforge-backend/internal/models"
	"github.com/flagforge/flagforge-backend/internal/store"
	"github.com/flagforge/flagforge-backend/internal/token"
)

const currentUserKey = "currentUser"

// JWTProtected rejects requests without a valid Bearer access token. It is
// purely cryptographic; AttachUser resolves the live user afterwards.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return apperr.Unauthorized("error_invalid_token", "Missing, invalid or expired access token")
		},
	})
}

// AttachUser re-fetches the live user record for the verified token so
// deleted or modified accounts are caught. Downstream handlers read the
// identity via CurrentUser and never re-verify tokens themselves.
func AttachUser(users store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, ok := c.Locals("user").(*jwt.Token)
		if !ok || tok == nil {
			return apperr.Unauthorized("error_unauthorized", "Missing authorization")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return apperr.Unauthorized("error_invalid_token", "Invalid token claims")
		}
		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			return apperr.Unauthorized("error_invalid_token", "Invalid token subject")
		}

		user, err := users.FindByID(c.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("error_user_not_found", "User no longer exists")
			}
			return apperr.Internal()
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// OptionalUser attaches an identity when a Bearer token is present and
// valid, and passes anonymous requests through untouched. A token that is
// present but invalid is still rejected.
func OptionalUser(users store.UserStore, issuer *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}
		value := strings.TrimPrefix(header, "Bearer ")
		if value == header {
			return apperr.BadRequest("error_invalid_token", "Malformed authorization header")
		}

		claims, err := issuer.Verify(value)
		if err != nil {
			return apperr.Unauthorized("error_invalid_token", "Invalid or expired access token")
		}

		user, err := users.FindByID(c.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("error_user_not_found", "User no longer exists")
			}
			return apperr.Internal()
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the identity attached by AttachUser/OptionalUser,
// or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals(currentUserKey).(*models.User); ok {
		return user
	}
	return nil
}
