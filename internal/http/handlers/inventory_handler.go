package handlers

import (
	"github.com/gofiber/fiber/v2"

	"anynow/internal/services"
	"anynow/internal/validate"
)

type InventoryHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/availability?productId=&corner=
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Query("productId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing productId")
	}
	corner, ok := validate.Corner(c.Query("corner"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "unknown corner")
	}
	p, err := h.Catalog.Product(corner, id)
	if err != nil {
		return fail(c, "availability", err)
	}
	return c.JSON(p.Availability)
}
