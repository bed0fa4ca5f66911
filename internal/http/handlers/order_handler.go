package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "anynow/internal/log"
	"anynow/internal/services"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
}

type checkoutForm struct {
	services.Contact
	// ClientTotal is what the browser displayed; it is only compared, never charged.
	ClientTotal float64 `json:"total" form:"total"`
}

// POST /api/v1/checkout
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var f checkoutForm
	if err := c.BodyParser(&f); err != nil {
		return badRequest(c, "body", "invalid request")
	}

	var customerID int64
	if u, ok := currentUser(c); ok {
		customerID = u.ID
	}
	o, err := h.Order.Place(c.UserContext(), sid, customerID, f.Contact)
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"sid": sid, "error": err.Error()})
		return fail(c, "order.place", err)
	}
	mismatch := f.ClientTotal != 0 && !services.TotalsMatch(f.ClientTotal, o.TotalAmount)
	applog.Audit(c, "order.place", map[string]any{
		"order_id":     o.ID,
		"server_total": o.TotalAmount,
		"client_total": f.ClientTotal,
		"mismatch":     mismatch,
	})
	return c.Status(fiber.StatusCreated).JSON(o)
}
