package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/timiwhyte01/fan-mvp/internal/station"
)

// RegisterPublicStationRoutes wires the read-only station directory.
func RegisterPublicStationRoutes(r fiber.Router, h *station.Handler) {
	group := r.Group("/stations")
	group.Get("", h.List)
	group.Get("/nearby", h.Nearby)
}

// RegisterProtectedStationRoutes wires station creation, which requires an
// authenticated caller.
func RegisterProtectedStationRoutes(r fiber.Router, h *station.Handler) {
	r.Post("/stations", h.Create)
}
