// handlers/errors.go - Error to response translation
package handlers

import (
	"teammatch/middleware"
	"teammatch/services"
	"teammatch/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

var hideInternalErrors bool

// respondError writes err as JSON. Business failures keep their status,
// message and code; anything else is a 500.
func respondError(c *fiber.Ctx, err error) error {
	if se, ok := services.AsServiceError(err); ok {
		return c.Status(se.Status).JSON(fiber.Map{
			"success": false,
			"error":   se.Message,
			"code":    se.Code,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return utils.JSONError(c, fe.Code, fe.Message)
	}

	middleware.Logger(c).WithError(err).Error("request failed")

	message := err.Error()
	if hideInternalErrors {
		message = "An error occurred. Please try again later."
	}
	return utils.JSONError(c, fiber.StatusInternalServerError, message)
}

// ErrorHandler is the app-wide Fiber error handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"code":    "INVALID_INPUT",
	})
}
