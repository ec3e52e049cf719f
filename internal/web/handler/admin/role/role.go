// Package role provides handlers for managing roles in the admin area.
package role

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/db/models"
	"github.com/attenda/attenda/internal/directory"
	"github.com/attenda/attenda/internal/web/handler"
	authmw "github.com/attenda/attenda/internal/web/middleware/auth"
)

// Path is the base path for role management.
const Path = handler.RootPath + "admin/role"

// Service provides the role administration handlers.
type Service struct {
	cfg      *config.Config
	admin    *directory.Admin
	validate *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, admin *directory.Admin, authService *authz.Service) {
	if app == nil || cfg == nil || admin == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.admin = admin
	s.validate = validator.New()

	app.Get(Path, s.List)

	manageRoles := authmw.RequireCapability(authService, authz.CapManageRoles)

	app.Post(Path, manageRoles, s.Create)
	app.Put(Path+"/:id", manageRoles, s.Update)
	app.Delete(Path+"/:id", manageRoles, s.Delete)
}

type roleBody struct {
	Name          string `json:"name" validate:"required"`
	DisplayName   string `json:"display_name"`
	HierarchyRank uint   `json:"hierarchy_rank"`

	ApproveLeave         models.Scope `json:"approve_leave" validate:"omitempty,oneof=none subordinates all"`
	ApproveOnDuty        models.Scope `json:"approve_on_duty" validate:"omitempty,oneof=none subordinates all"`
	ApproveTimeOff       models.Scope `json:"approve_time_off" validate:"omitempty,oneof=none subordinates all"`
	ManageUsers          models.Scope `json:"manage_users" validate:"omitempty,oneof=none subordinates all"`
	ViewUsers            models.Scope `json:"view_users" validate:"omitempty,oneof=none subordinates all"`
	ViewReports          models.Scope `json:"view_reports" validate:"omitempty,oneof=none subordinates all"`
	ManageActiveOnDuty   models.Scope `json:"manage_active_on_duty" validate:"omitempty,oneof=none subordinates all"`
	ManageSchedule       models.Scope `json:"manage_schedule" validate:"omitempty,oneof=none subordinates all"`
	ViewActivities       models.Scope `json:"view_activities" validate:"omitempty,oneof=none subordinates all"`
	ManageSystemSettings models.Scope `json:"manage_system_settings" validate:"omitempty,oneof=none subordinates all"`

	AccessWebApplication bool `json:"access_web_application"`
	ManageLeaveTypes     bool `json:"manage_leave_types"`
	ManageRoles          bool `json:"manage_roles"`
	ManageEmailSettings  bool `json:"manage_email_settings"`
}

func (b *roleBody) input() directory.RoleInput {
	in := directory.RoleInput{
		Name:          b.Name,
		DisplayName:   b.DisplayName,
		HierarchyRank: b.HierarchyRank,

		ApproveLeave:         b.ApproveLeave,
		ApproveOnDuty:        b.ApproveOnDuty,
		ApproveTimeOff:       b.ApproveTimeOff,
		ManageUsers:          b.ManageUsers,
		ViewUsers:            b.ViewUsers,
		ViewReports:          b.ViewReports,
		ManageActiveOnDuty:   b.ManageActiveOnDuty,
		ManageSchedule:       b.ManageSchedule,
		ViewActivities:       b.ViewActivities,
		ManageSystemSettings: b.ManageSystemSettings,

		AccessWebApplication: b.AccessWebApplication,
		ManageLeaveTypes:     b.ManageLeaveTypes,
		ManageRoles:          b.ManageRoles,
		ManageEmailSettings:  b.ManageEmailSettings,
	}

	// omitted scopes default to no access
	scopes := []*models.Scope{
		&in.ApproveLeave, &in.ApproveOnDuty, &in.ApproveTimeOff,
		&in.ManageUsers, &in.ViewUsers, &in.ViewReports,
		&in.ManageActiveOnDuty, &in.ManageSchedule, &in.ViewActivities,
		&in.ManageSystemSettings,
	}
	for _, scope := range scopes {
		if *scope == "" {
			*scope = models.ScopeNone
		}
	}

	return in
}

// List returns all roles ordered by rank.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := s.admin.ListRoles(handler.ActorID(c))
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.JSON(roles)
}

// Create creates a new role.
func (s *Service) Create(c *fiber.Ctx) error {
	var body roleBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	role, err := s.admin.CreateRole(handler.ActorID(c), body.input())
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(role)
}

// Update edits a role.
func (s *Service) Update(c *fiber.Ctx) error {
	roleID, err := c.ParamsInt("id")
	if err != nil || roleID < 1 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid role id"})
	}

	var body roleBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	role, err := s.admin.UpdateRole(handler.ActorID(c), uint(roleID), body.input())
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.JSON(role)
}

// Delete removes an unreferenced role.
func (s *Service) Delete(c *fiber.Ctx) error {
	roleID, err := c.ParamsInt("id")
	if err != nil || roleID < 1 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid role id"})
	}

	if err := s.admin.DeleteRole(handler.ActorID(c), uint(roleID)); err != nil {
		return handler.MapError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
