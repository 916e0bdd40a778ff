package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/timiwhyte01/fan-mvp/internal/payment"
)

// RegisterPaymentRoutes wires payment endpoints.
func RegisterPaymentRoutes(r fiber.Router, h *payment.Handler) {
	group := r.Group("/payments")
	group.Post("", h.Create)
	group.Get("/my", h.ListMine)
}
