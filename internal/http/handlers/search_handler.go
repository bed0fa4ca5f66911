package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"anynow/internal/log"
	"anynow/internal/services"
	"anynow/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/products?q=&category=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	q := ""
	if strings.TrimSpace(rawQ) != "" {
		var ok bool
		if q, ok = validate.Q(rawQ); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
			return jsonError(c, fiber.StatusBadRequest, "Enter a valid keyword (letters/numbers only)")
		}
	}
	category := strings.TrimSpace(c.Query("category"))
	if category != "" && !validate.IsSlug(category) {
		log.Security(c, "validation.fail", map[string]any{"field": "category"})
		return jsonError(c, fiber.StatusBadRequest, "Invalid category")
	}

	products := h.Catalog.Search(q, category)
	return c.JSON(fiber.Map{"q": q, "category": category, "products": products, "count": len(products)})
}
