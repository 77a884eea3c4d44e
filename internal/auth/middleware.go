package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const CtxClientKey = "client"

// JWTMiddleware requires "Authorization: Bearer <token>" signed with secret.
func JWTMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header must be 'Bearer <token>'")
		}

		claims, err := ParseToken(secret, strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(CtxClientKey, claims.Client)
		return c.Next()
	}
}
