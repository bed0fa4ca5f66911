package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"anynow/internal/log"
	"anynow/internal/services"
	"anynow/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartItemForm struct {
	ProductID int64  `json:"productId" form:"productId"`
	Corner    string `json:"corner" form:"corner"`
	Quantity  int    `json:"quantity" form:"quantity"`
}

// GET /api/v1/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(c.UserContext(), ensureSID(c))
	if err != nil {
		return fail(c, "cart.view", err)
	}
	return c.JSON(cv)
}

// POST /api/v1/cart/items
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var f cartItemForm
	if err := c.BodyParser(&f); err != nil {
		return badRequest(c, "body", "invalid request")
	}
	if f.ProductID <= 0 {
		return badRequest(c, "productId", "missing productId")
	}
	corner, ok := validate.Corner(f.Corner)
	if !ok {
		return badRequest(c, "corner", "unknown corner")
	}
	qty := validate.Qty(strconv.Itoa(f.Quantity))
	if err := h.Cart.Add(c.UserContext(), sid, corner, f.ProductID, qty); err != nil {
		return fail(c, "cart.add", err)
	}
	log.Info(c, "cart.add", map[string]any{"product_id": f.ProductID, "corner": corner, "qty": qty})
	return h.View(c)
}

// PATCH /api/v1/cart/items/:id?corner=
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	corner, ok := validate.Corner(c.Query("corner"))
	if !ok {
		return badRequest(c, "corner", "unknown corner")
	}
	var f cartItemForm
	if err := c.BodyParser(&f); err != nil {
		return badRequest(c, "body", "invalid request")
	}
	if f.Quantity > 50 {
		f.Quantity = 50
	}
	if err := h.Cart.UpdateQuantity(c.UserContext(), sid, corner, id, f.Quantity); err != nil {
		return fail(c, "cart.update", err)
	}
	return h.View(c)
}

// DELETE /api/v1/cart/items/:id?corner=
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	corner, ok := validate.Corner(c.Query("corner"))
	if !ok {
		return badRequest(c, "corner", "unknown corner")
	}
	if err := h.Cart.Remove(c.UserContext(), sid, corner, id); err != nil {
		return fail(c, "cart.remove", err)
	}
	return h.View(c)
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(c.UserContext(), ensureSID(c)); err != nil {
		return fail(c, "cart.clear", err)
	}
	return h.View(c)
}
