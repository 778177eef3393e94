package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/dto"
	"github.com/flagforge/flagforge-backend/internal/middleware"
	"github.com/flagforge/flagforge-backend/internal/services"
)

type CTFHandler struct {
	ctfService *services.CTFService
}

func NewCTFHandler(ctfService *services.CTFService) *CTFHandler {
	return &CTFHandler{ctfService: ctfService}
}

func (h *CTFHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCTFRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("error_invalid_request", "Invalid request body")
	}
	if req.Name == "" {
		return apperr.BadRequest("error_invalid_request", "CTF name is required")
	}

	ctf, err := h.ctfService.Create(c.Context(), middleware.CurrentUser(c), middleware.CurrentTeam(c), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ctf)
}

func (h *CTFHandler) List(c *fiber.Ctx) error {
	includeArchived := c.QueryBool("includeArchived")
	ctfs, err := h.ctfService.List(c.Context(), middleware.CurrentUser(c), middleware.CurrentTeam(c), includeArchived)
	if err != nil {
		return err
	}
	return c.JSON(ctfs)
}

func (h *CTFHandler) Get(c *fiber.Ctx) error {
	ctf := middleware.CurrentCTF(c)
	resolved, err := h.ctfService.Get(c.Context(), middleware.CurrentUser(c), middleware.CurrentTeam(c), ctf.ID)
	if err != nil {
		return err
	}
	return c.JSON(resolved)
}

func (h *CTFHandler) Archive(c *fiber.Ctx) error {
	return h.setArchived(c, true)
}

func (h *CTFHandler) Unarchive(c *fiber.Ctx) error {
	return h.setArchived(c, false)
}

func (h *CTFHandler) setArchived(c *fiber.Ctx, archived bool) error {
	ctf := middleware.CurrentCTF(c)
	resolved, err := h.ctfService.SetArchived(c.Context(), middleware.CurrentUser(c), middleware.CurrentTeam(c), ctf.ID, archived)
	if err != nil {
		return err
	}
	return c.JSON(resolved)
}
