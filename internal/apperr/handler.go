package apperr

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/flagforge/flagforge-backend/internal/dto"
)

// ErrorHandler renders apperr values with their status and stable code.
// Unexpected errors become an opaque 500; only 4xx detail reaches clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := As(err); ok {
		if appErr.Status >= 500 {
			slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		}
		return c.Status(appErr.Status).JSON(dto.ErrorResponse{
			Error:     true,
			ErrorCode: appErr.Code,
			Message:   appErr.Message,
			Details:   appErr.Details,
		})
	}

	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
