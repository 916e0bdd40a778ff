package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/timiwhyte01/fan-mvp/internal/advance"
)

// RegisterAdvanceRoutes wires advance request and redemption endpoints.
func RegisterAdvanceRoutes(r fiber.Router, h *advance.Handler) {
	group := r.Group("/advances")
	group.Post("", h.Create)
	group.Get("/my", h.ListMine)
	group.Post("/redeem", h.Redeem)
}
