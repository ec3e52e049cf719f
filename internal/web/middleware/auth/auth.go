package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/attenda/attenda/internal/auth"
	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/web/handler"
	"github.com/attenda/attenda/internal/web/session"
)

// publicPrefixes are reachable without authentication.
var publicPrefixes = []string{
	"/login",
	"/logout",
	"/api/login",
	"/checkalive",
	"/metrics",
}

// New creates the authentication middleware. Browser clients carry a
// session cookie; API clients carry an Authorization Bearer token. Either
// way the resolved user id lands in fiber.Locals for the handlers.
func New(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		originalURL := strings.ToLower(c.OriginalURL())
		for _, prefix := range publicPrefixes {
			if strings.HasPrefix(originalURL, prefix) {
				return c.Next()
			}
		}

		// bearer token first, mobile clients have no cookie jar
		if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
			userID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
			}

			c.Locals(handler.CurrentUserIDKey, userID)

			return c.Next()
		}

		// get session cookie
		loginCookie := c.Cookies("session")
		if loginCookie == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		sessData := new(session.Data)
		if err := sessData.Read(loginCookie); err != nil || sessData.User.ID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		c.Locals(handler.CurrentUserIDKey, sessData.User.ID)
		c.Locals(handler.CurrentUserKey, sessData.User)

		return c.Next()
	}
}

// RequireCapability creates middleware that rejects actors holding the
// capability at no scope at all. Handlers behind it still narrow results to
// the decided scope; this gate only keeps plainly unauthorized actors out.
func RequireCapability(authService *authz.Service, capability authz.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actorID := handler.ActorID(c)
		if actorID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		decision, err := authService.Evaluate(actorID, capability)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", actorID).Str("capability", string(capability)).
				Msg("failed to evaluate capability")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}

		if !decision.Allowed() {
			log.Warn().Uint64("user_id", actorID).Str("capability", string(capability)).
				Msg("user lacks required capability")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}

		return c.Next()
	}
}
