package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/dto"
	"github.com/flagforge/flagforge-backend/internal/middleware"
	"github.com/flagforge/flagforge-backend/internal/services"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("error_invalid_request", "Invalid request body")
	}
	if len(req.TeamName) < 3 || len(req.TeamName) > 64 {
		return apperr.BadRequest("error_invalid_request", "Team name must be between 3 and 64 characters")
	}

	resp, err := h.teamService.Create(c.Context(), middleware.CurrentUser(c), req.TeamName)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *TeamHandler) Get(c *fiber.Ctx) error {
	resp, err := h.teamService.Get(c.Context(), middleware.CurrentUser(c), middleware.CurrentTeam(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *TeamHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("error_invalid_request", "Invalid request body")
	}

	resp, err := h.teamService.Update(c.Context(), middleware.CurrentUser(c), middleware.CurrentTeam(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	if err := h.teamService.Delete(c.Context(), middleware.CurrentUser(c), middleware.CurrentTeam(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TeamHandler) CreateInvite(c *fiber.Ctx) error {
	var req dto.CreateInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("error_invalid_request", "Invalid request body")
	}

	resp, err := h.teamService.CreateInvite(c.Context(), middleware.CurrentUser(c), middleware.CurrentTeam(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
