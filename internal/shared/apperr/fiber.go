package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler maps the domain error taxonomy onto HTTP statuses; everything
// else falls through to fiber's own errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		status := fiber.StatusInternalServerError
		switch appErr.Kind {
		case KindValidation:
			status = fiber.StatusBadRequest
		case KindNotFound:
			status = fiber.StatusNotFound
		case KindOwnership:
			status = fiber.StatusForbidden
		}
		body := fiber.Map{"message": appErr.Msg}
		if appErr.Field != "" {
			body["field"] = appErr.Field
		}
		return c.Status(status).JSON(body)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
}
