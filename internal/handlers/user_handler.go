package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/dto"
	"github.com/flagforge/flagforge-backend/internal/middleware"
	"github.com/flagforge/flagforge-backend/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetSelf(c *fiber.Ctx) error {
	resp, err := h.userService.Get(c.Context(), middleware.CurrentUser(c), nil)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userID"))
	if err != nil {
		return apperr.BadRequest("error_invalid_id", "Invalid user id")
	}

	resp, err := h.userService.Get(c.Context(), middleware.CurrentUser(c), &userID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("error_invalid_request", "Invalid request body")
	}
	if req.Password != nil && len(*req.Password) < 8 {
		return apperr.BadRequest("error_invalid_request", "Password must be at least 8 characters")
	}
	if req.Username != nil && len(*req.Username) < 3 {
		return apperr.BadRequest("error_invalid_request", "Username must be at least 3 characters")
	}

	resp, err := h.userService.Update(c.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.userService.Delete(c.Context(), middleware.CurrentUser(c), c.IP()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
