package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// NewSecurityHeadersMiddleware stops browsers from reinterpreting uploaded
// images as another content type and keeps the API out of frames.
func NewSecurityHeadersMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderXFrameOptions, "DENY")
		c.Set(fiber.HeaderReferrerPolicy, "no-referrer")
		return c.Next()
	}
}
