package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error is the taxonomy carried from the service layer to the HTTP boundary.
// Clients key off Code, not Message.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"errorCode"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func (e *Error) WithDetails(details string) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

func BadRequest(code, message string) *Error {
	return New(fiber.StatusBadRequest, code, message)
}

func Unauthorized(code, message string) *Error {
	return New(fiber.StatusUnauthorized, code, message)
}

func Forbidden(code, message string) *Error {
	return New(fiber.StatusForbidden, code, message)
}

func NotFound(code, message string) *Error {
	return New(fiber.StatusNotFound, code, message)
}

func Conflict(code, message string) *Error {
	return New(fiber.StatusConflict, code, message)
}

// Internal hides the underlying cause from the client; the fiber error
// handler logs it server-side.
func Internal() *Error {
	return New(fiber.StatusInternalServerError, "error_internal", "Internal server error")
}

// As unwraps err into an *Error if it is one.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
