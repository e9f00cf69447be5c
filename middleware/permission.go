package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireRole returns a middleware that only lets the listed roles through.
// It must run after JWTMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("userId").(uint); !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}
		role, _ := c.Locals("role").(string)
		if !allowed[role] {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}
		return c.Next()
	}
}
