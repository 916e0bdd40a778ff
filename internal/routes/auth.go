package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/timiwhyte01/fan-mvp/internal/auth"
)

// RegisterAuthRoutes wires registration, login and one-time-code endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/send-otp", h.SendCode)
	group.Post("/verify-otp", h.VerifyCode)
	group.Post("/register", h.Register)
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
}

// RegisterProfileRoutes wires the authenticated profile endpoints.
func RegisterProfileRoutes(r fiber.Router, h *auth.Handler) {
	group := r.Group("/auth")
	group.Get("/me", h.Me)
	group.Patch("/me", h.UpdateMe)
}
