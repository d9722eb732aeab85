package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kingtroga/health-takeaways/pkg/internal/http/exts"
	"github.com/kingtroga/health-takeaways/pkg/internal/services"
	"github.com/rs/zerolog/log"
)

var loginFields = []services.FieldDescriptor{
	{Name: "username", Label: "Username or Email", Widget: services.WidgetText, Required: true, Placeholder: "Your username or email", Autocomplete: "username"},
	{Name: "password", Label: "Password", Widget: services.WidgetPassword, Required: true, Placeholder: "Your password", Autocomplete: "current-password"},
	{Name: "remember", Label: "Remember me", Widget: services.WidgetCheckbox},
}

var signupFields = []services.FieldDescriptor{
	{Name: "username", Label: "Username", Widget: services.WidgetText, Required: true, Placeholder: "Choose a username", Autocomplete: "username"},
	{Name: "email", Label: "Email", Widget: services.WidgetEmail, Required: true, Placeholder: "you@example.com", Autocomplete: "email"},
	{Name: "password1", Label: "Password", Widget: services.WidgetPassword, Required: true, Placeholder: "Create a strong password", Autocomplete: "new-password"},
	{Name: "password2", Label: "Password confirmation", Widget: services.WidgetPassword, Required: true, Placeholder: "Repeat password", Autocomplete: "new-password"},
}

type accountFormPage struct {
	Title    string                     `json:"title"`
	Fields   []services.FieldDescriptor `json:"fields"`
	Next     string                     `json:"next"`
	Values   map[string]any             `json:"values,omitempty"`
	Errors   services.FormErrors        `json:"errors,omitempty"`
	Messages []exts.Flash               `json:"messages"`
}

func renderAccountForm(c *fiber.Ctx, status int, page accountFormPage) error {
	page.Messages = exts.PopFlashes(c)
	return c.Status(status).JSON(page)
}

func getNextParam(c *fiber.Ctx, submitted string) string {
	if len(submitted) > 0 {
		return submitted
	}
	return c.Query("next")
}

func getLoginForm(c *fiber.Ctx) error {
	if _, ok := exts.GetPrincipal(c); ok {
		return c.Redirect(exts.SafeNext(c.Query("next"), dashboardURL), fiber.StatusSeeOther)
	}

	return renderAccountForm(c, fiber.StatusOK, accountFormPage{
		Title:  "Log in",
		Fields: loginFields,
		Next:   c.Query("next"),
	})
}

func doLogin(c *fiber.Ctx) error {
	var data struct {
		Username string `json:"username" form:"username" validate:"required"`
		Password string `json:"password" form:"password" validate:"required"`
		Remember bool   `json:"remember" form:"remember"`
		Next     string `json:"next" form:"next"`
	}

	page := accountFormPage{Title: "Log in", Fields: loginFields}
	if err := exts.BindForm(c, &data); err != nil {
		return err
	}
	page.Next = getNextParam(c, data.Next)
	page.Values = map[string]any{"username": data.Username, "remember": data.Remember}

	if errs := services.ValidateStruct(&data); errs.HasErrors() {
		page.Errors = errs
		return renderAccountForm(c, fiber.StatusUnprocessableEntity, page)
	}

	user, err := services.Authenticate(data.Username, data.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		page.Errors = services.FormErrors{}
		page.Errors.Add(services.NonFieldErrors, services.InvalidCredentialsMessage)
		return renderAccountForm(c, fiber.StatusUnauthorized, page)
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := exts.SetSession(c, user, data.Remember); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	log.Info().Uint("id", user.ID).Bool("remember", data.Remember).Msg("An account signed in.")
	return c.Redirect(exts.SafeNext(page.Next, dashboardURL), fiber.StatusSeeOther)
}

func doLogout(c *fiber.Ctx) error {
	exts.ClearSession(c)
	return c.Redirect("/", fiber.StatusSeeOther)
}

func getSignupForm(c *fiber.Ctx) error {
	return renderAccountForm(c, fiber.StatusOK, accountFormPage{
		Title:  "Sign up",
		Fields: signupFields,
		Next:   c.Query("next"),
	})
}

func doSignup(c *fiber.Ctx) error {
	var data struct {
		Username  string `json:"username" form:"username" validate:"required,max=150"`
		Email     string `json:"email" form:"email" validate:"required,email,max=254"`
		Password1 string `json:"password1" form:"password1" validate:"required,min=8"`
		Password2 string `json:"password2" form:"password2" validate:"required,eqfield=Password1"`
		Next      string `json:"next" form:"next"`
	}

	page := accountFormPage{Title: "Sign up", Fields: signupFields}
	if err := exts.BindForm(c, &data); err != nil {
		return err
	}
	data.Username = strings.TrimSpace(data.Username)
	data.Email = strings.TrimSpace(data.Email)
	page.Next = getNextParam(c, data.Next)
	page.Values = map[string]any{"username": data.Username, "email": data.Email}

	if errs := services.ValidateStruct(&data); errs.HasErrors() {
		page.Errors = errs
		return renderAccountForm(c, fiber.StatusUnprocessableEntity, page)
	}

	user, err := services.NewAccount(data.Username, data.Email, data.Password1)
	if errors.Is(err, services.ErrAccountExists) {
		page.Errors = services.FormErrors{}
		page.Errors.Add("username", services.AccountExistsMessage)
		return renderAccountForm(c, fiber.StatusUnprocessableEntity, page)
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := exts.SetSession(c, user, false); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Redirect(exts.SafeNext(page.Next, dashboardURL), fiber.StatusSeeOther)
}
