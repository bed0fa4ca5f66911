package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"anynow/internal/bridge"
	"anynow/internal/domain"
	applog "anynow/internal/log"
	"anynow/internal/services"
	"anynow/internal/validate"
)

type AdminHandler struct {
	Bridge *bridge.Bridge
	Auth   *services.AdminAuth
}

// GET /login
func (h *AdminHandler) LoginPage(c *fiber.Ctx) error {
	return render(c, "admin_login", fiber.Map{"Err": ""})
}

// POST /api/v1/login
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var f loginForm
	if err := c.BodyParser(&f); err != nil {
		return badRequest(c, "body", "invalid request")
	}
	tok, err := h.Auth.Login(f.Email, f.Password)
	if err != nil {
		applog.Security(c, "admin.login.fail", map[string]any{"email": f.Email})
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}
	c.Cookie(&fiber.Cookie{
		Name:     adminCookie,
		Value:    tok,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Expires:  time.Now().Add(h.Auth.TTL),
	})
	applog.Audit(c, "admin.login.success", map[string]any{"email": f.Email})
	return c.JSON(fiber.Map{"token": tok})
}

// POST /api/v1/logout
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     adminCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "admin.logout", nil)
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	orders := h.Bridge.Orders()
	if len(orders) > 10 {
		orders = orders[:10]
	}
	pending := 0
	for _, t := range h.Bridge.Testimonials() {
		if !t.IsApproved {
			pending++
		}
	}
	return render(c, "admin_dashboard", fiber.Map{
		"Admin":               c.Locals("admin"),
		"Stats":               h.Bridge.OrderStats(),
		"Orders":              orders,
		"Products":            len(h.Bridge.Products(domain.CornerMain)),
		"PanProducts":         len(h.Bridge.Products(domain.CornerPan)),
		"LiquorProducts":      len(h.Bridge.Products(domain.CornerLiquor)),
		"Categories":          len(h.Bridge.Categories()),
		"Users":               len(h.Bridge.Users()),
		"PendingTestimonials": pending,
		"Statuses":            []string{domain.StatusNew, domain.StatusAccepted, domain.StatusDelivered, domain.StatusCancelled},
	})
}

// GET /api/v1/orders?status=
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	orders := h.Bridge.Orders()
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		out := []domain.Order{}
		for _, o := range orders {
			if strings.EqualFold(o.Status, st) {
				out = append(out, o)
			}
		}
		orders = out
	}
	return c.JSON(orders)
}

// GET /api/v1/orders/stats
func (h *AdminHandler) OrderStats(c *fiber.Ctx) error {
	return c.JSON(h.Bridge.OrderStats())
}

// GET /api/v1/orders/:id
func (h *AdminHandler) Order(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid order id")
	}
	o, err := h.Bridge.Order(id)
	if err != nil {
		return fail(c, "admin.orders.get", err)
	}
	return c.JSON(o)
}

// PATCH /api/v1/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid order id")
	}
	var f struct {
		Status string `json:"status" form:"status"`
	}
	if err := c.BodyParser(&f); err != nil {
		return badRequest(c, "body", "invalid request")
	}
	status, ok := validate.Status(f.Status)
	if !ok {
		return badRequest(c, "status", "missing status")
	}
	o, err := h.Bridge.UpdateOrderStatus(c.UserContext(), id, status)
	if err != nil {
		return fail(c, "admin.orders.update", err)
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.JSON(o)
}

type userRow struct {
	domain.User
	OrderCount int `json:"orderCount"`
}

// GET /api/v1/users?q=
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users := h.Bridge.SearchUsers(c.Query("q"))
	out := make([]userRow, 0, len(users))
	for _, u := range users {
		out = append(out, userRow{User: u.Public(), OrderCount: h.Bridge.UserOrderCount(u.ID)})
	}
	return c.JSON(out)
}

// GET /api/v1/users/:id
func (h *AdminHandler) User(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid user id")
	}
	u, err := h.Bridge.User(id)
	if err != nil {
		return fail(c, "admin.users.get", err)
	}
	return c.JSON(fiber.Map{
		"user":      u.Public(),
		"orders":    h.Bridge.OrdersByCustomer(u.ID, u.Email),
		"addresses": h.Bridge.Addresses(u.ID),
	})
}

// POST /api/v1/users/:id/toggle-block
func (h *AdminHandler) ToggleUserBlocked(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid user id")
	}
	u, err := h.Bridge.ToggleUserBlocked(c.UserContext(), id)
	if err != nil {
		return fail(c, "admin.users.block", err)
	}
	applog.Audit(c, "admin.users.block", map[string]any{"user_id": id, "blocked": u.IsBlocked})
	return c.JSON(u.Public())
}

// GET /api/v1/testimonials?q=
func (h *AdminHandler) Testimonials(c *fiber.Ctx) error {
	return c.JSON(h.Bridge.SearchTestimonials(c.Query("q")))
}

// POST /api/v1/testimonials/:id/toggle-approval
func (h *AdminHandler) ToggleTestimonialApproval(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid testimonial id")
	}
	t, err := h.Bridge.ToggleTestimonialApproval(c.UserContext(), id)
	if err != nil {
		return fail(c, "admin.testimonials.approve", err)
	}
	applog.Audit(c, "admin.testimonials.approve", map[string]any{"testimonial_id": id, "approved": t.IsApproved})
	return c.JSON(t)
}

// DELETE /api/v1/testimonials/:id
func (h *AdminHandler) DeleteTestimonial(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid testimonial id")
	}
	if err := h.Bridge.DeleteTestimonial(c.UserContext(), id); err != nil {
		return fail(c, "admin.testimonials.delete", err)
	}
	applog.Audit(c, "admin.testimonials.delete", map[string]any{"testimonial_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /api/v1/reset
func (h *AdminHandler) Reset(c *fiber.Ctx) error {
	if err := h.Bridge.ClearAll(c.UserContext()); err != nil {
		return fail(c, "admin.reset", err)
	}
	applog.Audit(c, "admin.reset", nil)
	return c.JSON(fiber.Map{"ok": true})
}
