package exts

import (
	"encoding/base64"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

const (
	FlashCookieName = "takeaways_flash"

	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

const flashLocalsKey = "flashes"

type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func decodeFlashes(raw string) []Flash {
	if len(raw) == 0 {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var out []Flash
	if err := jsoniter.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func pendingFlashes(c *fiber.Ctx) []Flash {
	if pending, ok := c.Locals(flashLocalsKey).([]Flash); ok {
		return pending
	}
	return decodeFlashes(c.Cookies(FlashCookieName))
}

// AddFlash queues a message for the next page the client loads.
func AddFlash(c *fiber.Ctx, level, message string) {
	pending := append(pendingFlashes(c), Flash{Level: level, Message: message})
	c.Locals(flashLocalsKey, pending)

	data, err := jsoniter.Marshal(pending)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// PopFlashes returns every queued message and clears them.
func PopFlashes(c *fiber.Ctx) []Flash {
	pending := pendingFlashes(c)
	c.Locals(flashLocalsKey, []Flash{})

	if len(pending) == 0 {
		return []Flash{}
	}
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return pending
}
