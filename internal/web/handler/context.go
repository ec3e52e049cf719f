package handler

import (
	"github.com/gofiber/fiber/v2"
)

// ActorID returns the authenticated user's id placed in fiber.Locals by the
// auth middleware, or 0 when the request is unauthenticated.
func ActorID(c *fiber.Ctx) uint64 {
	if id, ok := c.Locals(CurrentUserIDKey).(uint64); ok {
		return id
	}

	return 0
}
