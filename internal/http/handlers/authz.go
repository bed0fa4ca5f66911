package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "anynow/internal/log"
	"anynow/internal/services"
)

const adminCookie = "admin_token"

// RequireAdmin accepts the admin token from its cookie or a bearer header.
func RequireAdmin(admin *services.AdminAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := c.Cookies(adminCookie)
		if tok == "" {
			tok = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}
		if tok == "" {
			if acceptsHTML(c) {
				return c.Redirect("/login")
			}
			return jsonError(c, fiber.StatusUnauthorized, "admin login required")
		}
		claims, err := admin.Verify(tok)
		if err != nil {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": err.Error()})
			return jsonError(c, fiber.StatusForbidden, "access denied")
		}
		c.Locals("admin", claims.Email)
		return c.Next()
	}
}

// RequireUser enforces a logged-in, non-blocked customer.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := auth.CurrentUser(c.UserContext(), c.Cookies("sid"))
		if err != nil {
			return fail(c, "auth.session", err)
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// AttachUser puts the logged-in customer, if any, in Locals.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(c.UserContext(), sid); err == nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

func acceptsHTML(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMETextHTML &&
		!strings.HasPrefix(c.Path(), "/api/")
}
