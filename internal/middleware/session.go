package middleware

import (
	"time"

	"studynote-ai/internal/util"

	"github.com/gofiber/fiber/v2"
)

const (
	SessionCookie = "studynote_session"
	SessionIDKey  = "sessionID" // Key for storing the session id in fiber.Ctx locals
)

// Session assigns every browser a ULID session id kept in a cookie. The id
// keys the session's result slot; it carries no identity.
func Session(maxAge time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookie)
		if !util.IsULID(sessionID) {
			sessionID = util.NewULID()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(maxAge.Seconds()),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(SessionIDKey, sessionID)
		return c.Next()
	}
}

// SessionID returns the id set by Session, or "" outside of it.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(SessionIDKey).(string)
	return id
}
