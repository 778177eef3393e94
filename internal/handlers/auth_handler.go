package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/dto"
	"github.com/flagforge/flagforge-backend/internal/services"
)

const refreshCookieName = "refreshToken"

type AuthHandler struct {
	authService   *services.AuthService
	refreshExpiry time.Duration
}

func NewAuthHandler(authService *services.AuthService, refreshExpiry time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, refreshExpiry: refreshExpiry}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("error_invalid_request", "Invalid request body")
	}
	if len(req.Username) < 3 || len(req.Password) < 8 {
		return apperr.BadRequest("error_invalid_request", "Username must be at least 3 and password at least 8 characters")
	}

	resp, err := h.authService.Register(c.Context(), req.Username, req.Password, c.IP())
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, resp.RefreshToken)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("error_invalid_request", "Invalid request body")
	}

	resp, err := h.authService.Authenticate(c.Context(), req.Username, req.Password, c.IP())
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, resp.RefreshToken)
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refresh := h.refreshTokenFrom(c)
	if refresh == "" {
		return apperr.Unauthorized("error_invalid_token", "Missing refresh token")
	}

	resp, err := h.authService.Refresh(c.Context(), refresh, c.IP())
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, resp.RefreshToken)
	return c.JSON(resp)
}

// Logout clears the cookie regardless of the revoke outcome so a client
// holding a dead token still ends up logged out locally.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refresh := h.refreshTokenFrom(c)
	h.clearRefreshCookie(c)
	if refresh == "" {
		return apperr.Unauthorized("error_invalid_token", "Missing refresh token")
	}

	if err := h.authService.Logout(c.Context(), refresh, c.IP()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// refreshTokenFrom prefers the httpOnly cookie and falls back to the JSON
// body for clients that cannot send cookies.
func (h *AuthHandler) refreshTokenFrom(c *fiber.Ctx) string {
	if cookie := c.Cookies(refreshCookieName); cookie != "" {
		return cookie
	}
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return ""
	}
	return req.RefreshToken
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Expires:  time.Now().Add(h.refreshExpiry),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}
