package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/timiwhyte01/fan-mvp/internal/auth"
	"github.com/timiwhyte01/fan-mvp/internal/identity"
)

// JWTAuth validates bearer tokens and resolves the subject phone to a user.
// The user id and phone are stored in locals for downstream handlers.
func JWTAuth(tokens *auth.Service, repo identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		phone, err := tokens.Subject(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		user, err := repo.FindByPhone(c.UserContext(), phone)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", user.ID)
		c.Locals("phone", user.Phone)
		return c.Next()
	}
}
