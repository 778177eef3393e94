package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/middleware"
	"github.com/flagforge/flagforge-backend/internal/services"
)

type InviteHandler struct {
	teamService *services.TeamService
}

func NewInviteHandler(teamService *services.TeamService) *InviteHandler {
	return &InviteHandler{teamService: teamService}
}

// Get previews an invite. Anonymous callers are allowed and receive a
// reduced view.
func (h *InviteHandler) Get(c *fiber.Ctx) error {
	code := c.Params("inviteCode")
	if !validInviteCode(code) {
		return apperr.BadRequest("error_invalid_id", "Invalid invite code")
	}

	resp, err := h.teamService.GetInvite(c.Context(), middleware.CurrentUser(c), code)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Use redeems an invite; the caller must be authenticated.
func (h *InviteHandler) Use(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return apperr.Unauthorized("error_unauthorized", "Missing authorization")
	}

	code := c.Params("inviteCode")
	if !validInviteCode(code) {
		return apperr.BadRequest("error_invalid_id", "Invalid invite code")
	}

	resp, err := h.teamService.UseInvite(c.Context(), user, code)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Invite codes are 6 lowercase hex characters.
func validInviteCode(code string) bool {
	return len(code) == 6 && isHex(code)
}

func isHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
