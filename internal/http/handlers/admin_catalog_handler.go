package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"anynow/internal/bridge"
	"anynow/internal/domain"
	applog "anynow/internal/log"
	"anynow/internal/validate"
)

type AdminCatalogHandler struct {
	Bridge *bridge.Bridge
}

// GET /api/v1/products?corner=&category=
func (h *AdminCatalogHandler) Products(c *fiber.Ctx) error {
	corner, ok := validate.Corner(c.Query("corner"))
	if !ok {
		return badRequest(c, "corner", "unknown corner")
	}
	list := h.Bridge.Products(corner)
	if cat := c.Query("category"); cat != "" {
		out := []domain.Product{}
		for _, p := range list {
			if p.Category == cat {
				out = append(out, p)
			}
		}
		list = out
	}
	return c.JSON(list)
}

// GET /api/v1/products/:id?corner=
func (h *AdminCatalogHandler) Product(c *fiber.Ctx) error {
	corner, ok := validate.Corner(c.Query("corner"))
	if !ok {
		return badRequest(c, "corner", "unknown corner")
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	p, err := h.Bridge.Product(corner, id)
	if err != nil {
		return fail(c, "admin.products.get", err)
	}
	return c.JSON(p)
}

// POST /api/v1/products?corner=
func (h *AdminCatalogHandler) CreateProduct(c *fiber.Ctx) error {
	corner, ok := validate.Corner(c.Query("corner"))
	if !ok {
		return badRequest(c, "corner", "unknown corner")
	}
	var p domain.Product
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "body", "invalid request")
	}
	p.Name = strings.TrimSpace(p.Name)
	if err := validate.ProductForm(p); err != nil {
		return badRequest(c, "product", err.Error())
	}
	p, err := h.Bridge.CreateProduct(c.UserContext(), corner, p)
	if err != nil {
		return fail(c, "admin.products.create", err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product_id": p.ID, "corner": corner})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PATCH /api/v1/products/:id?corner=
func (h *AdminCatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	corner, ok := validate.Corner(c.Query("corner"))
	if !ok {
		return badRequest(c, "corner", "unknown corner")
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	var patch domain.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "body", "invalid request")
	}
	if err := validate.ProductPatch(patch); err != nil {
		return badRequest(c, "product", err.Error())
	}
	p, err := h.Bridge.UpdateProduct(c.UserContext(), corner, id, patch)
	if err != nil {
		return fail(c, "admin.products.update", err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product_id": id, "corner": corner})
	return c.JSON(p)
}

// DELETE /api/v1/products/:id?corner=
func (h *AdminCatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	corner, ok := validate.Corner(c.Query("corner"))
	if !ok {
		return badRequest(c, "corner", "unknown corner")
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	if err := h.Bridge.DeleteProduct(c.UserContext(), corner, id); err != nil {
		return fail(c, "admin.products.delete", err)
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id, "corner": corner})
	return c.SendStatus(fiber.StatusNoContent)
}

var (
	errCategoryName = errors.New("category name is required")
	errCategorySlug = errors.New("slug may only contain lowercase letters, digits and dashes")
)

type categoryForm struct {
	Name string `json:"name" form:"name"`
	Slug string `json:"slug" form:"slug"`
}

func (f categoryForm) check(requireName bool) error {
	if requireName || f.Name != "" {
		if _, ok := validate.Name(f.Name); !ok {
			return errCategoryName
		}
	}
	if f.Slug != "" && !validate.IsSlug(f.Slug) {
		return errCategorySlug
	}
	return nil
}

// GET /api/v1/categories
func (h *AdminCatalogHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(h.Bridge.Categories())
}

// POST /api/v1/categories
func (h *AdminCatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var f categoryForm
	if err := c.BodyParser(&f); err != nil {
		return badRequest(c, "body", "invalid request")
	}
	if err := f.check(true); err != nil {
		return badRequest(c, "category", err.Error())
	}
	if f.Slug == "" && validate.Slug(f.Name) == "" {
		return badRequest(c, "category", errCategorySlug.Error())
	}
	cat, err := h.Bridge.CreateCategory(c.UserContext(), domain.Category{Name: f.Name, Slug: f.Slug})
	if err != nil {
		return fail(c, "admin.categories.create", err)
	}
	applog.Audit(c, "admin.categories.create", map[string]any{"category_id": cat.ID, "slug": cat.Slug})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// PATCH /api/v1/categories/:id
func (h *AdminCatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid category id")
	}
	var f categoryForm
	if err := c.BodyParser(&f); err != nil {
		return badRequest(c, "body", "invalid request")
	}
	if err := f.check(false); err != nil {
		return badRequest(c, "category", err.Error())
	}
	cat, err := h.Bridge.UpdateCategory(c.UserContext(), id, f.Name, f.Slug)
	if err != nil {
		return fail(c, "admin.categories.update", err)
	}
	applog.Audit(c, "admin.categories.update", map[string]any{"category_id": id})
	return c.JSON(cat)
}

// DELETE /api/v1/categories/:id
// Products of the main catalog filed under the category are deleted too.
func (h *AdminCatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid category id")
	}
	removed, err := h.Bridge.DeleteCategory(c.UserContext(), id)
	if err != nil {
		return fail(c, "admin.categories.delete", err)
	}
	applog.Audit(c, "admin.categories.delete", map[string]any{"category_id": id, "products_removed": removed})
	return c.JSON(fiber.Map{"removedProducts": removed})
}
