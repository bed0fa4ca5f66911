package handlers

import (
	"github.com/gofiber/fiber/v2"

	"anynow/internal/log"
	"anynow/internal/services"
)

type TestimonialHandler struct {
	Testimonials *services.TestimonialService
}

// GET /api/v1/testimonials
func (h *TestimonialHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.Testimonials.Published())
}

// POST /api/v1/testimonials
func (h *TestimonialHandler) Submit(c *fiber.Ctx) error {
	var f services.TestimonialForm
	if err := c.BodyParser(&f); err != nil {
		return badRequest(c, "body", "invalid request")
	}
	if u, ok := currentUser(c); ok {
		if f.Name == "" {
			f.Name = u.Name
		}
		if f.Email == "" {
			f.Email = u.Email
		}
	}
	t, err := h.Testimonials.Submit(c.UserContext(), f)
	if err != nil {
		return fail(c, "testimonial.submit", err)
	}
	log.Info(c, "testimonial.submit", map[string]any{"testimonial_id": t.ID})
	return c.Status(fiber.StatusCreated).JSON(t)
}
