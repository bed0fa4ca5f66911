package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"anynow/internal/bridge"
	applog "anynow/internal/log"
	"anynow/internal/services"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	} else if tok := c.Cookies("csrf_"); tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// fail maps service and bridge errors to a status and a message that is safe
// to show. Anything unexpected is logged and reported as a generic 500.
func fail(c *fiber.Ctx, action string, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		applog.Security(c, "validation.fail", map[string]any{"action": action, "reason": ve.Msg})
		return jsonError(c, fiber.StatusBadRequest, ve.Msg)
	case errors.Is(err, services.ErrCartEmpty):
		return jsonError(c, fiber.StatusBadRequest, "your cart is empty")
	case errors.Is(err, bridge.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, bridge.ErrConflict):
		return jsonError(c, fiber.StatusConflict, "already exists")
	case errors.Is(err, services.ErrBadCreds):
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, services.ErrNotLoggedIn):
		return jsonError(c, fiber.StatusUnauthorized, "please log in")
	case errors.Is(err, services.ErrBlocked):
		return jsonError(c, fiber.StatusForbidden, "your account has been blocked")
	}
	applog.Error(c, action+".fail", err, nil)
	return jsonError(c, fiber.StatusInternalServerError, "Something went wrong. Please try again.")
}

func badRequest(c *fiber.Ctx, field, msg string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return jsonError(c, fiber.StatusBadRequest, msg)
}
