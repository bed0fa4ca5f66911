package handlers

import (
	"github.com/gofiber/fiber/v2"

	"anynow/internal/services"
	"anynow/internal/validate"
)

type CategoryHandler struct {
	Catalog  *services.CatalogService
	Location *services.LocationService
}

// GET /
func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	home := h.Catalog.Home()
	return render(c, "home", fiber.Map{
		"Categories":   home.Categories,
		"Featured":     home.Featured,
		"Pan":          home.Pan,
		"Liquor":       home.Liquor,
		"Testimonials": home.Testimonials,
		"Location":     h.Location.Get(c.UserContext(), c.Cookies("sid")),
	})
}

// GET /api/v1/catalog
func (h *CategoryHandler) Website(c *fiber.Ctx) error {
	return c.JSON(h.Catalog.Website())
}

// GET /api/v1/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.Catalog.Categories())
}

// GET /api/v1/categories/:slug/products
func (h *CategoryHandler) Products(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if !validate.IsSlug(slug) {
		return badRequest(c, "slug", "invalid category")
	}
	return c.JSON(h.Catalog.ProductsByCategory(slug))
}
