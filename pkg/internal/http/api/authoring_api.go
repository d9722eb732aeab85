package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kingtroga/health-takeaways/pkg/internal/database"
	"github.com/kingtroga/health-takeaways/pkg/internal/http/exts"
	"github.com/kingtroga/health-takeaways/pkg/internal/media"
	"github.com/kingtroga/health-takeaways/pkg/internal/models"
	"github.com/kingtroga/health-takeaways/pkg/internal/services"
	"github.com/samber/lo"
)

const dashboardURL = "/authoring/"

func authoringListURL(contentType string) string {
	if _, ok := services.GetStrategy(contentType); !ok {
		return dashboardURL
	}
	return fmt.Sprintf("%s%s/", dashboardURL, contentType)
}

func getAuthoringStrategy(c *fiber.Ctx) (services.ContentStrategy, error) {
	strategy, ok := services.GetStrategy(strings.ToLower(c.Params("type")))
	if !ok {
		return strategy, fiber.NewError(fiber.StatusNotFound, "unknown content type")
	}
	return strategy, nil
}

func getAuthoringContent(c *fiber.Ctx) (models.Content, error) {
	contentId, _ := c.ParamsInt("contentId", 0)

	item, err := services.GetContent(database.C, uint(contentId))
	if errors.Is(err, services.ErrContentNotFound) {
		return item, fiber.NewError(fiber.StatusNotFound, err.Error())
	} else if err != nil {
		return item, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return item, nil
}

type contentFormPage struct {
	services.ContentForm
	Messages []exts.Flash `json:"messages"`
}

func renderContentForm(c *fiber.Ctx, status int, form services.ContentForm) error {
	return c.Status(status).JSON(contentFormPage{
		ContentForm: form,
		Messages:    exts.PopFlashes(c),
	})
}

func getDashboard(c *fiber.Ctx) error {
	summary, err := services.GetContentSummary()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	types := services.AuthorableTypes()
	counts := lo.SliceToMap(types, func(item string) (string, int64) {
		return item, summary.Counts[item]
	})

	return c.JSON(fiber.Map{
		"counts":   counts,
		"types":    types,
		"messages": exts.PopFlashes(c),
	})
}

func listAuthoringContent(c *fiber.Ctx) error {
	strategy, err := getAuthoringStrategy(c)
	if err != nil {
		return err
	}

	tx := services.FilterContentWithType(database.C, strategy.Type)
	items, page, err := services.PaginateContent(tx, getPageSize(), c.Query("page"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"data":     items,
		"page":     page,
		"ctype":    strategy.Type,
		"messages": exts.PopFlashes(c),
	})
}

func getCreateForm(c *fiber.Ctx) error {
	strategy, err := getAuthoringStrategy(c)
	if err != nil {
		return err
	}

	return renderContentForm(c, fiber.StatusOK, strategy.Form(nil, nil))
}

func createContent(c *fiber.Ctx) error {
	strategy, err := getAuthoringStrategy(c)
	if err != nil {
		return err
	}

	return submitContent(c, strategy, nil)
}

func getEditForm(c *fiber.Ctx) error {
	item, err := getAuthoringContent(c)
	if err != nil {
		return err
	}

	strategy, ok := services.GetStrategy(item.Type)
	if !ok {
		exts.AddFlash(c, exts.FlashError, "Unsupported content type.")
		return c.Redirect(dashboardURL, fiber.StatusSeeOther)
	}

	values := services.InputFromContent(item)
	return renderContentForm(c, fiber.StatusOK, strategy.Form(&item, &values))
}

func editContent(c *fiber.Ctx) error {
	item, err := getAuthoringContent(c)
	if err != nil {
		return err
	}

	// The stored type decides how the submission is read.
	strategy, ok := services.GetStrategy(item.Type)
	if !ok {
		exts.AddFlash(c, exts.FlashError, "Unsupported content type.")
		return c.Redirect(dashboardURL, fiber.StatusSeeOther)
	}

	return submitContent(c, strategy, &item)
}

func submitContent(c *fiber.Ctx, strategy services.ContentStrategy, existing *models.Content) error {
	user, _ := exts.GetPrincipal(c)

	var data services.ContentInput
	if err := exts.BindForm(c, &data); err != nil {
		return err
	}
	// References are only ever set from accepted uploads.
	data.Image, data.Thumbnail = nil, nil

	errs := strategy.Validate(&data)
	uploads := checkUploads(c, strategy, errs)
	if errs.HasErrors() {
		form := strategy.Form(existing, &data)
		form.Errors = errs
		return renderContentForm(c, fiber.StatusUnprocessableEntity, form)
	}

	if err := storeUploads(c, uploads, &data); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var item models.Content
	if existing != nil {
		item = *existing
	}
	if _, err := services.SaveContent(user, strategy, data, item); errors.Is(err, services.ErrContentNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	exts.AddFlash(c, exts.FlashSuccess, lo.Ternary(existing == nil, strategy.CreatedMessage, strategy.UpdatedMessage))
	return c.Redirect(authoringListURL(strategy.Type), fiber.StatusSeeOther)
}

func getDeleteConfirm(c *fiber.Ctx) error {
	item, err := getAuthoringContent(c)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"object":   item,
		"messages": exts.PopFlashes(c),
	})
}

func deleteContent(c *fiber.Ctx) error {
	item, err := getAuthoringContent(c)
	if err != nil {
		return err
	}

	if err := services.DeleteContent(item); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	exts.AddFlash(c, exts.FlashSuccess, "Deleted successfully.")
	return c.Redirect(authoringListURL(item.Type), fiber.StatusSeeOther)
}

var uploadFolders = map[string]string{
	"image":     "images",
	"thumbnail": "thumbnails",
}

type pendingUpload struct {
	field  string
	header *multipart.FileHeader
}

// checkUploads looks at the image fields the strategy accepts and reports
// unacceptable files into errs. Nothing is stored yet.
func checkUploads(c *fiber.Ctx, strategy services.ContentStrategy, errs services.FormErrors) []pendingUpload {
	var out []pendingUpload
	for _, field := range []string{"image", "thumbnail"} {
		if !strategy.Accepts(field) {
			continue
		}
		header, err := c.FormFile(field)
		if err != nil || (len(header.Filename) == 0 && header.Size == 0) {
			continue
		}

		if err := media.CheckUpload(header.Filename, header.Header.Get(fiber.HeaderContentType), header.Size); err != nil {
			if errors.Is(err, media.ErrTooLarge) {
				errs.Add(field, "The uploaded file is too large.")
			} else {
				errs.Add(field, "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
			}
			continue
		}
		out = append(out, pendingUpload{field: field, header: header})
	}
	return out
}

func storeUploads(c *fiber.Ctx, uploads []pendingUpload, in *services.ContentInput) error {
	if len(uploads) > 0 && media.S == nil {
		return fmt.Errorf("media storage is not configured")
	}

	for _, upload := range uploads {
		file, err := upload.header.Open()
		if err != nil {
			return fmt.Errorf("unable to read upload: %v", err)
		}
		ref, err := media.S.Put(c.Context(), uploadFolders[upload.field], upload.header.Filename, file)
		_ = file.Close()
		if err != nil {
			return fmt.Errorf("unable to store upload: %v", err)
		}

		switch upload.field {
		case "image":
			in.Image = &ref
		case "thumbnail":
			in.Thumbnail = &ref
		}
	}
	return nil
}
