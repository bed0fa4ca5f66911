package handlers

import (
	"github.com/gofiber/fiber/v2"

	"anynow/internal/bridge"
	"anynow/internal/domain"
	applog "anynow/internal/log"
	"anynow/internal/services"
	"anynow/internal/validate"
)

// AccountHandler routes are mounted behind RequireUser.
type AccountHandler struct {
	Account *services.AccountService
	Bridge  *bridge.Bridge
}

// GET /api/v1/account
func (h *AccountHandler) Profile(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	return c.JSON(h.Account.Profile(u))
}

// GET /api/v1/account/orders/:id
func (h *AccountHandler) Order(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Order not found")
	}
	for _, o := range h.Bridge.OrdersByCustomer(u.ID, u.Email) {
		if o.ID == id {
			return c.JSON(o)
		}
	}
	applog.Security(c, "access.denied.order", map[string]any{"order_id": id})
	return jsonError(c, fiber.StatusNotFound, "Order not found")
}

// GET /api/v1/account/addresses
func (h *AccountHandler) Addresses(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	return c.JSON(h.Account.Profile(u).Addresses)
}

// POST /api/v1/account/addresses
func (h *AccountHandler) AddAddress(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	var a domain.Address
	if err := c.BodyParser(&a); err != nil {
		return badRequest(c, "body", "invalid request")
	}
	a, err := h.Account.AddAddress(c.UserContext(), u.ID, a)
	if err != nil {
		return fail(c, "account.address.add", err)
	}
	applog.Audit(c, "account.address.add", map[string]any{"user_id": u.ID, "address_id": a.ID})
	return c.Status(fiber.StatusCreated).JSON(a)
}

// DELETE /api/v1/account/addresses/:id
func (h *AccountHandler) DeleteAddress(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid address id")
	}
	if err := h.Account.DeleteAddress(c.UserContext(), u.ID, id); err != nil {
		return fail(c, "account.address.delete", err)
	}
	applog.Audit(c, "account.address.delete", map[string]any{"user_id": u.ID, "address_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
