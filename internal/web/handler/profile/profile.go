// Package profile provides self-service handlers for the logged-in user.
package profile

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/attenda/attenda/internal/auth"
	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/web/handler"
)

// Path is the base path for profile routes.
const Path = handler.RootPath + "profile"

// Service provides the profile handlers.
type Service struct {
	cfg      *config.Config
	provider *auth.LocalProvider
	validate *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, provider *auth.LocalProvider) {
	if app == nil || cfg == nil || provider == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.provider = provider
	s.validate = validator.New()

	app.Post(Path+"/password", s.ChangePassword)
}

type changePasswordBody struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword lets the acting user rotate their own password.
func (s *Service) ChangePassword(c *fiber.Ctx) error {
	var body changePasswordBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	err := s.provider.ChangePassword(handler.ActorID(c), body.OldPassword, body.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidOldPassword) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Uint64("user_id", handler.ActorID(c)).Msg("failed to change password")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
