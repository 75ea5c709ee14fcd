package handlers

import (
	"errors"
	"inventory/internal/apperrors"
	"inventory/internal/forms"
	"inventory/internal/logger"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a controller error onto a status code. Field errors are
// returned under "errors" keyed by form field name.
func respondError(c *fiber.Ctx, log logger.Logger, message string, err error) error {
	if errs, ok := apperrors.AsValidation(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).
			JSON(fiber.Map{"message": message, "errors": errs})
	}

	switch {
	case apperrors.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"message": message, "error": "not found"})
	case apperrors.IsUniqueViolation(err):
		return c.Status(fiber.StatusConflict).
			JSON(fiber.Map{"message": message, "error": "already exists"})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": message, "error": fiberErr.Message})
	}

	log.Er(message, err)
	return c.Status(fiber.StatusInternalServerError).
		JSON(fiber.Map{"message": message, "error": err.Error()})
}

// formData reads a JSON object body as flat form data. An empty body is an
// empty submission.
func formData(c *fiber.Ctx) (map[string]string, error) {
	if len(c.Body()) == 0 {
		return map[string]string{}, nil
	}

	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "request body must be a JSON object")
	}
	return forms.DataFromJSON(body), nil
}
