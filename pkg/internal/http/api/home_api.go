package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kingtroga/health-takeaways/pkg/internal/http/exts"
	"github.com/kingtroga/health-takeaways/pkg/internal/services"
)

const (
	homeFeaturedCount = 3
	homeLatestCount   = 10
)

func getHome(c *fiber.Ctx) error {
	summary, err := services.GetContentSummary()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	featured, err := services.ListFeaturedContent(homeFeaturedCount)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	latest, err := services.ListLatestContent(homeLatestCount)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"total_count": summary.Total,
		"counts":      summary.Counts,
		"featured":    featured,
		"latest":      latest,
		"messages":    exts.PopFlashes(c),
	})
}
