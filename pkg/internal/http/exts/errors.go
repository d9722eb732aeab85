package exts

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/kingtroga/health-takeaways/pkg/internal/services"
	"github.com/rs/zerolog/log"
)

// ErrorHandler renders every error escaping a handler as JSON. Form errors
// become 422 responses keyed by field.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var formErrs services.FormErrors
	if errors.As(err, &formErrs) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  utils.StatusMessage(fiber.StatusUnprocessableEntity),
			"errors": formErrs,
		})
	}

	status := fiber.StatusInternalServerError
	message := utils.StatusMessage(status)

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	} else {
		log.Error().Err(err).Str("path", c.Path()).Msg("An unexpected error occurred when handling request...")
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   utils.StatusMessage(status),
		"message": message,
	})
}
