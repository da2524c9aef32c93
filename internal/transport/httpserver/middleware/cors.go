package middleware

import "github.com/gofiber/fiber/v2"

// RelayCORS sets the permissive CORS headers the post relay answers with,
// on every response including preflights.
func RelayCORS() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, PUT, DELETE, OPTIONS")
		c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type, Authorization")

		return c.Next()
	}
}
