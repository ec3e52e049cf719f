// Package user provides handlers for managing users in the admin area.
package user

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

// Path is the base path for user management.
const Path = handler.RootPath + "admin/user"

// Service provides the user administration handlers.
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

	// Listing stays ungated: the service narrows results to the actor's
	// scope and a denied actor gets an empty list.
	app.Get(Path, s.List)

	manageUsers := authmw.RequireCapability(authService, authz.CapManageUsers)

	app.Post(Path, manageUsers, s.Create)
	app.Put(Path+"/:id", manageUsers, s.Update)
	app.Delete(Path+"/:id", manageUsers, s.Delete)
	app.Post(Path+"/:id/password", manageUsers, s.ResetPassword)
	app.Post(Path+"/:id/allotment",
		authmw.RequireCapability(authService, authz.CapManageLeaveTypes),
		s.AssignAllotment,
	)
}

type userBody struct {
	Username           string  `json:"username" validate:"required"`
	Email              string  `json:"email" validate:"required,email"`
	Password           string  `json:"password"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	RoleID             *uint   `json:"role_id"`
	ApprovingManagerID *uint64 `json:"approving_manager_id"`
	Active             bool    `json:"active"`
}

type passwordBody struct {
	Password string `json:"password" validate:"required,min=8"`
}

type allotmentBody struct {
	LeaveTypeID uint `json:"leave_type_id" validate:"required"`
	Days        int  `json:"days" validate:"min=0"`
}

type userResponse struct {
	ID                 uint64  `json:"id"`
	Username           string  `json:"username"`
	Email              string  `json:"email"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	RoleID             *uint   `json:"role_id"`
	ApprovingManagerID *uint64 `json:"approving_manager_id"`
	Active             bool    `json:"active"`
}

func render(u *models.User) userResponse {
	return userResponse{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		RoleID:             u.RoleID,
		ApprovingManagerID: u.ApprovingManagerID,
		Active:             u.Active,
	}
}

// List returns the users visible to the acting user.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := s.admin.ListVisibleUsers(handler.ActorID(c))
	if err != nil {
		return handler.MapError(c, err)
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, render(&users[i]))
	}

	return c.JSON(out)
}

// Create creates a new user.
func (s *Service) Create(c *fiber.Ctx) error {
	var body userBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	if body.Password == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "password is required"})
	}

	user, err := s.admin.CreateUser(handler.ActorID(c), directory.UserInput{
		Username:           body.Username,
		Email:              body.Email,
		Password:           body.Password,
		FirstName:          body.FirstName,
		LastName:           body.LastName,
		RoleID:             body.RoleID,
		ApprovingManagerID: body.ApprovingManagerID,
		Active:             body.Active,
	})
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(render(user))
}

// Update edits an existing user.
func (s *Service) Update(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil || targetID < 1 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid user id"})
	}

	var body userBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := s.admin.UpdateUser(handler.ActorID(c), uint64(targetID), directory.UserInput{
		Username:           body.Username,
		Email:              body.Email,
		FirstName:          body.FirstName,
		LastName:           body.LastName,
		RoleID:             body.RoleID,
		ApprovingManagerID: body.ApprovingManagerID,
		Active:             body.Active,
	})
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.JSON(render(user))
}

// Delete removes a user account.
func (s *Service) Delete(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil || targetID < 1 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid user id"})
	}

	if err := s.admin.DeleteUser(handler.ActorID(c), uint64(targetID)); err != nil {
		return handler.MapError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ResetPassword sets a new password for the target user.
func (s *Service) ResetPassword(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil || targetID < 1 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid user id"})
	}

	var body passwordBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.admin.ResetPassword(handler.ActorID(c), uint64(targetID), body.Password); err != nil {
		return handler.MapError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AssignAllotment sets a per-user leave allotment.
func (s *Service) AssignAllotment(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil || targetID < 1 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid user id"})
	}

	var body allotmentBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.admin.AssignAllotment(handler.ActorID(c), uint64(targetID), body.LeaveTypeID, body.Days); err != nil {
		return handler.MapError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
