package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/dto"
	"github.com/flagforge/flagforge-backend/internal/middleware"
	"github.com/flagforge/flagforge-backend/internal/services"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
}

func NewChallengeHandler(challengeService *services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

func (h *ChallengeHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("error_invalid_request", "Invalid request body")
	}
	if req.Name == "" {
		return apperr.BadRequest("error_invalid_request", "Challenge name is required")
	}

	challenge, err := h.challengeService.Create(c.Context(), middleware.CurrentUser(c), middleware.CurrentTeam(c), middleware.CurrentCTF(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(challenge)
}

func (h *ChallengeHandler) Get(c *fiber.Ctx) error {
	challengeID, err := uuid.Parse(c.Params("challengeID"))
	if err != nil {
		return apperr.BadRequest("error_invalid_id", "Invalid challenge id")
	}

	challenge, err := h.challengeService.Get(c.Context(), middleware.CurrentUser(c), middleware.CurrentTeam(c), middleware.CurrentCTF(c), challengeID)
	if err != nil {
		return err
	}
	return c.JSON(challenge)
}

func (h *ChallengeHandler) Update(c *fiber.Ctx) error {
	challengeID, err := uuid.Parse(c.Params("challengeID"))
	if err != nil {
		return apperr.BadRequest("error_invalid_id", "Invalid challenge id")
	}

	var req dto.UpdateChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("error_invalid_request", "Invalid request body")
	}

	challenge, err := h.challengeService.Update(c.Context(), middleware.CurrentUser(c), middleware.CurrentTeam(c), middleware.CurrentCTF(c), challengeID, &req)
	if err != nil {
		return err
	}
	return c.JSON(challenge)
}
