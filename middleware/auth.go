package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/portfolio-api/auth"
)

const userKey = "user"

// TokenParser verifies a bearer token and returns its claims
type TokenParser interface {
	ParseToken(token string) (*auth.Claims, error)
}

// JWTMiddleware checks the bearer token and stores its claims in the request locals.
// A missing token is 401, a token that fails verification is 403.
func JWTMiddleware(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// "Bearer <token>"
		parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
		if len(parts) < 2 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No token provided."})
		}

		claims, err := tokens.ParseToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Invalid or expired token."})
		}

		c.Locals(userKey, claims)
		return c.Next()
	}
}

// CurrentUser returns the claims stored by JWTMiddleware, or nil on public routes.
func CurrentUser(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(userKey).(*auth.Claims)
	return claims
}
