package web

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	user "github.com/example/todo-lists-demo/domain/user"
	"github.com/example/todo-lists-demo/modules/auth"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "session"

	// FlashCookie carries a one-shot notice shown on the next page load.
	FlashCookie = "flash"

	// UserContextKey is the key used to store the resolved identity in
	// the Fiber context.
	UserContextKey = "user"
)

// sessionCookieTTL matches the session token lifetime.
const sessionCookieTTL = 7 * 24 * time.Hour

// OptionalUser resolves the session cookie when present. An invalid or
// expired session clears the cookie and the request continues
// anonymously.
func OptionalUser(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			return c.Next()
		}

		identity, err := authAdapter.ValidateSession(c.UserContext(), token)
		if err != nil {
			clearSessionCookie(c)
			return c.Next()
		}

		c.Locals(UserContextKey, identity)
		return c.Next()
	}
}

// RequireUser redirects anonymous requests to the login page. It must
// run after OptionalUser.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if identityFromCtx(c) == nil {
			setFlash(c, "Please log in first.")
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// identityFromCtx returns the logged-in identity, or nil when the
// request is anonymous.
func identityFromCtx(c *fiber.Ctx) *user.Identity {
	identity, _ := c.Locals(UserContextKey).(*user.Identity)
	return identity
}

// setSessionCookie stores the session token.
func setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(sessionCookieTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearSessionCookie logs the browser out.
func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// setFlash stores a one-shot notice for the next page load. The value
// is escaped because cookie values cannot contain spaces.
func setFlash(c *fiber.Ctx, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookie,
		Value:    url.QueryEscape(message),
		Expires:  time.Now().Add(time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// takeFlash reads and clears the pending notice, if any.
func takeFlash(c *fiber.Ctx) string {
	raw := c.Cookies(FlashCookie)
	if raw == "" {
		return ""
	}
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	message, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return message
}
