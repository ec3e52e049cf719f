// Package leavetype provides handlers for managing leave types in the admin
// area.
package leavetype

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/db/models"
	"github.com/attenda/attenda/internal/web/handler"
	authmw "github.com/attenda/attenda/internal/web/middleware/auth"
)

// Path is the base path for leave type management.
const Path = handler.RootPath + "admin/leavetype"

// Service provides the leave type handlers.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	validate *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. Reading the catalogue is open to every
// authenticated user; changing it needs the manage capability.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *authz.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validate = validator.New()

	app.Get(Path, s.List)

	manage := authmw.RequireCapability(authService, authz.CapManageLeaveTypes)

	app.Post(Path, manage, s.Create)
	app.Put(Path+"/:id", manage, s.Update)
	app.Delete(Path+"/:id", manage, s.Delete)
}

type leaveTypeBody struct {
	Name        string `json:"name" validate:"required"`
	DisplayName string `json:"display_name"`
	DefaultDays int    `json:"default_days" validate:"min=0"`
}

// List returns all leave types.
func (s *Service) List(c *fiber.Ctx) error {
	var types []models.LeaveType

	if err := s.db.Order("name ASC").Find(&types).Error; err != nil {
		log.Error().Err(err).Msg("failed to list leave types")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(types)
}

// Create adds a leave type.
func (s *Service) Create(c *fiber.Ctx) error {
	var body leaveTypeBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.LeaveType

	err := s.db.Where("name = ?", body.Name).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "leave type already exists"})
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Msg("failed to check existing leave type")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	leaveType := models.LeaveType{
		Name:        body.Name,
		DisplayName: body.DisplayName,
		DefaultDays: body.DefaultDays,
	}

	if err := s.db.Create(&leaveType).Error; err != nil {
		log.Error().Err(err).Msg("failed to create leave type")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(leaveType)
}

// Update edits a leave type.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid leave type id"})
	}

	var body leaveTypeBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]any{
		"name":         body.Name,
		"display_name": body.DisplayName,
		"default_days": body.DefaultDays,
	}

	tx := s.db.Model(&models.LeaveType{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("failed to update leave type")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	if tx.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "leave type not found"})
	}

	var leaveType models.LeaveType
	if err := s.db.First(&leaveType, id).Error; err != nil {
		log.Error().Err(err).Msg("failed to reload leave type")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(leaveType)
}

// Delete removes a leave type that no request references.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid leave type id"})
	}

	var count int64

	if err := s.db.Model(&models.LeaveRequest{}).Where("leave_type_id = ?", id).Count(&count).Error; err != nil {
		log.Error().Err(err).Msg("failed to count leave type references")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "leave type is referenced by requests"})
	}

	tx := s.db.Delete(&models.LeaveType{}, id)
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("failed to delete leave type")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	if tx.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "leave type not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
