package handlers

import (
	"github.com/gofiber/fiber/v2"

	"anynow/internal/domain"
	"anynow/internal/services"
)

type LocationHandler struct {
	Location *services.LocationService
}

// GET /api/v1/locations?q=
func (h *LocationHandler) Search(c *fiber.Ctx) error {
	return c.JSON(h.Location.Search(c.Query("q")))
}

// GET /api/v1/location
func (h *LocationHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.Location.Get(c.UserContext(), ensureSID(c)))
}

type locationForm struct {
	City string   `json:"city" form:"city"`
	Area string   `json:"area" form:"area"`
	Lat  *float64 `json:"lat" form:"lat"`
	Lon  *float64 `json:"lon" form:"lon"`
}

// POST /api/v1/location
// Either a city or coordinates; coordinates resolve to the nearest city.
func (h *LocationHandler) Set(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var f locationForm
	if err := c.BodyParser(&f); err != nil {
		return badRequest(c, "body", "invalid request")
	}
	loc := domain.Location{City: f.City, Area: f.Area}
	if f.City == "" && f.Lat != nil && f.Lon != nil {
		loc = domain.Location{City: services.Nearest(*f.Lat, *f.Lon).Name, Area: "Current Location"}
	}
	saved, err := h.Location.Set(c.UserContext(), sid, loc)
	if err != nil {
		return fail(c, "location.set", err)
	}
	return c.JSON(saved)
}
