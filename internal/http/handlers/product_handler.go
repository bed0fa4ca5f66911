package handlers

import (
	"github.com/gofiber/fiber/v2"

	"anynow/internal/log"
	"anynow/internal/services"
	"anynow/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/products/:id?corner=
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return jsonError(c, fiber.StatusNotFound, "This item is no longer available")
	}
	corner, ok := validate.Corner(c.Query("corner"))
	if !ok {
		return badRequest(c, "corner", "unknown corner")
	}
	p, err := h.Catalog.Product(corner, id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "This item is no longer available")
	}
	return c.JSON(p)
}

// GET /api/v1/products/featured
func (h *ProductHandler) Featured(c *fiber.Ctx) error {
	return c.JSON(h.Catalog.Featured())
}

// GET /api/v1/corners/:corner/products
func (h *ProductHandler) Corner(c *fiber.Ctx) error {
	corner, ok := validate.Corner(c.Params("corner"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	return c.JSON(h.Catalog.Corner(corner))
}
