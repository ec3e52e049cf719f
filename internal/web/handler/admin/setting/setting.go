// Package setting provides handlers for system and email settings in the
// admin area.
package setting

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/config"
	settingctl "github.com/attenda/attenda/internal/db/controller/setting"
	"github.com/attenda/attenda/internal/web/handler"
	authmw "github.com/attenda/attenda/internal/web/middleware/auth"
)

// Path is the base path for settings management.
const Path = handler.RootPath + "admin/setting"

// Service provides the settings handlers.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	validate *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. General settings sit behind the system settings
// capability; the email transport row has its own capability.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *authz.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validate = validator.New()

	manageSystem := authmw.RequireCapability(authService, authz.CapManageSystemSettings)
	manageEmail := authmw.RequireCapability(authService, authz.CapManageEmailSettings)

	app.Get(Path+"/email", manageEmail, s.GetEmail)
	app.Put(Path+"/email", manageEmail, s.SetEmail)

	app.Get(Path, manageSystem, s.List)
	app.Get(Path+"/:name", manageSystem, s.Get)
	app.Put(Path+"/:name", manageSystem, s.Set)
	app.Delete(Path+"/:name", manageSystem, s.Delete)
}

type settingBody struct {
	Value string `json:"value" validate:"required"`
}

type settingResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// List returns all settings.
func (s *Service) List(c *fiber.Ctx) error {
	settings, err := settingctl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list settings")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	out := make([]settingResponse, 0, len(settings))
	for i := range settings {
		out = append(out, settingResponse{Name: settings[i].Name, Value: string(settings[i].Value)})
	}

	return c.JSON(out)
}

// Get returns a single setting by name.
func (s *Service) Get(c *fiber.Ctx) error {
	row, err := settingctl.Get(s.db, c.Params("name"))
	if err != nil {
		return s.mapError(c, err)
	}

	return c.JSON(settingResponse{Name: row.Name, Value: string(row.Value)})
}

// Set upserts a setting by name.
func (s *Service) Set(c *fiber.Ctx) error {
	var body settingBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	row, err := settingctl.Set(s.db, c.Params("name"), []byte(body.Value))
	if err != nil {
		return s.mapError(c, err)
	}

	return c.JSON(settingResponse{Name: row.Name, Value: string(row.Value)})
}

// Delete removes a setting by name.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := settingctl.DeleteByName(s.db, c.Params("name")); err != nil {
		return s.mapError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetEmail returns the email transport settings.
func (s *Service) GetEmail(c *fiber.Ctx) error {
	settings, err := settingctl.GetEmailSettings(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load email settings")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(settings)
}

// SetEmail stores the email transport settings.
func (s *Service) SetEmail(c *fiber.Ctx) error {
	var body settingctl.EmailSettings
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := settingctl.SetEmailSettings(s.db, body); err != nil {
		log.Error().Err(err).Msg("failed to store email settings")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, settingctl.ErrSettingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, settingctl.ErrSettingNameEmpty):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, settingctl.ErrSettingAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	log.Error().Err(err).Msg("settings operation failed")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
