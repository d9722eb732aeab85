package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kingtroga/health-takeaways/pkg/internal/http/exts"
)

func MapControllers(app *fiber.App, baseURL string) {
	api := app.Group(baseURL)
	{
		api.Get("/", getHome)

		contents := api.Group("/content")
		{
			contents.Get("/", listContent)
			contents.Get("/:contentId<int>/", getContent)
			contents.Post("/:contentId<int>/vote/", voteContent)
		}

		accounts := api.Group("/accounts")
		{
			accounts.Get("/login/", getLoginForm)
			accounts.Post("/login/", doLogin)
			accounts.Post("/logout/", doLogout)
			accounts.Get("/signup/", getSignupForm)
			accounts.Post("/signup/", doSignup)
		}

		authoring := api.Group("/authoring", exts.EnsureAuthenticated)
		{
			authoring.Get("/", getDashboard)
			authoring.Get("/:contentId<int>/edit/", getEditForm)
			authoring.Post("/:contentId<int>/edit/", editContent)
			authoring.Get("/:contentId<int>/delete/", getDeleteConfirm)
			authoring.Post("/:contentId<int>/delete/", deleteContent)
			authoring.Get("/:type/", listAuthoringContent)
			authoring.Get("/:type/new/", getCreateForm)
			authoring.Post("/:type/new/", createContent)
		}
	}
}
