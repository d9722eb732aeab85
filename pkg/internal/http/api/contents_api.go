package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kingtroga/health-takeaways/pkg/internal/database"
	"github.com/kingtroga/health-takeaways/pkg/internal/http/exts"
	"github.com/kingtroga/health-takeaways/pkg/internal/models"
	"github.com/kingtroga/health-takeaways/pkg/internal/services"
	"github.com/spf13/viper"
)

func getPageSize() int {
	if size := viper.GetInt("content.page_size"); size > 0 {
		return size
	}
	return services.DefaultPageSize
}

func listContent(c *fiber.Ctx) error {
	ctype := strings.ToLower(strings.TrimSpace(c.Query("type")))
	probe := strings.TrimSpace(c.Query("q"))

	tx := services.FilterContentWithType(database.C, ctype)
	tx = services.FilterContentWithSearch(tx, probe)

	items, page, err := services.PaginateContent(tx, getPageSize(), c.Query("page"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var echoType *string
	if len(ctype) > 0 {
		echoType = &ctype
	}

	return c.JSON(fiber.Map{
		"data":     items,
		"page":     page,
		"ctype":    echoType,
		"q":        probe,
		"messages": exts.PopFlashes(c),
	})
}

func getContent(c *fiber.Ctx) error {
	contentId, _ := c.ParamsInt("contentId", 0)

	item, err := services.ViewContent(uint(contentId))
	if errors.Is(err, services.ErrContentNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(renderContentDetail(c, item))
}

func renderContentDetail(c *fiber.Ctx, item models.Content) fiber.Map {
	var totalVotes uint
	if item.Poll != nil {
		totalVotes = item.Poll.TotalVotes
	}

	return fiber.Map{
		"content":     item,
		"poll":        item.Poll,
		"total_votes": totalVotes,
		"messages":    exts.PopFlashes(c),
	}
}

func voteContent(c *fiber.Ctx) error {
	contentId, _ := c.ParamsInt("contentId", 0)

	var data struct {
		Option uint `json:"option" form:"option" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.VoteOption(uint(contentId), data.Option)
	switch {
	case errors.Is(err, services.ErrContentNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotAPoll), errors.Is(err, services.ErrOptionNotFound):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(renderContentDetail(c, item))
}
