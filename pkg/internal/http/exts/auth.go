package exts

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kingtroga/health-takeaways/pkg/internal/models"
	"github.com/kingtroga/health-takeaways/pkg/internal/services"
	"github.com/rs/zerolog/log"
)

const (
	SessionCookieName = "takeaways_session"
	LoginURL          = "/accounts/login/"
)

func getSessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookieName); len(token) > 0 {
		return token
	}
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// AuthMiddleware resolves the signed in account, if any, into c.Locals("user").
func AuthMiddleware(c *fiber.Ctx) error {
	token := getSessionToken(c)
	if len(token) == 0 {
		return c.Next()
	}

	id, err := services.ParseSessionToken(token)
	if err != nil {
		log.Debug().Err(err).Msg("Ignored an invalid session token.")
		return c.Next()
	}
	if account, err := services.GetAccountWithID(id); err == nil {
		c.Locals("user", account)
	}

	return c.Next()
}

func GetPrincipal(c *fiber.Ctx) (models.Account, bool) {
	user, ok := c.Locals("user").(models.Account)
	return user, ok
}

// EnsureAuthenticated sends anonymous callers to the login page, keeping
// the page they asked for in the next parameter.
func EnsureAuthenticated(c *fiber.Ctx) error {
	if _, ok := GetPrincipal(c); ok {
		return c.Next()
	}
	return c.Redirect(LoginURL+"?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusSeeOther)
}

// SetSession signs the account in. A remembered session outlives the
// browser for the configured session TTL, otherwise the cookie is dropped
// when the browser closes.
func SetSession(c *fiber.Ctx, user models.Account, remember bool) error {
	ttl := services.BrowserSessionTTL
	if remember {
		ttl = services.GetSessionTTL()
	}

	token, err := services.NewSessionToken(user, ttl)
	if err != nil {
		return err
	}

	cookie := &fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if remember {
		cookie.Expires = time.Now().Add(ttl)
	} else {
		cookie.SessionOnly = true
	}
	c.Cookie(cookie)
	c.Locals("user", user)

	return nil
}

func ClearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Locals("user", nil)
}

// SafeNext returns next when it is a path on this site, fallback otherwise.
func SafeNext(next, fallback string) string {
	next = strings.TrimSpace(next)
	if len(next) == 0 || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	parsed, err := url.Parse(next)
	if err != nil || len(parsed.Scheme) > 0 || len(parsed.Host) > 0 {
		return fallback
	}
	return next
}
