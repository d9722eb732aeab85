package exts

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kingtroga/health-takeaways/pkg/internal/services"
)

// BindForm parses a JSON, urlencoded or multipart body into out.
func BindForm(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// BindAndValidate parses the body into out and runs its validation tags.
// Field errors come back as services.FormErrors.
func BindAndValidate(c *fiber.Ctx, out any) error {
	if err := BindForm(c, out); err != nil {
		return err
	} else if errs := services.ValidateStruct(out); errs.HasErrors() {
		return errs
	}
	return nil
}
