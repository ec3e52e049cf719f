// Package onduty provides the JSON handlers for on-duty visit logs. Unlike
// leave and time-off, a visit is opened and later closed instead of being
// applied for as a finished interval.
package onduty

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/web/handler"
	"github.com/attenda/attenda/internal/web/handler/requests"
	"github.com/attenda/attenda/internal/workflow"
)

// Path is the base path for on-duty logs.
const Path = handler.RootPath + "onduty"

// Service is the on-duty handler service.
type Service struct {
	cfg      *config.Config
	engine   *workflow.Engine
	validate *validator.Validate
	routes   requests.Routes
}

// Handler is the on-duty handler.
var Handler = Service{}

// Init registers the on-duty routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, engine *workflow.Engine) {
	if app == nil || cfg == nil || engine == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.engine = engine
	s.validate = validator.New()
	s.routes = requests.Routes{
		Kind:     workflow.KindOnDuty,
		Engine:   engine,
		Validate: s.validate,
	}

	app.Route(Path, func(router fiber.Router) {
		router.Post("/start", s.Start)
		router.Post("/:id/end", s.End)
		router.Get(handler.RouterRootPath, s.routes.ListOwn)
		router.Get("/review", s.routes.ListVisible)
		router.Get("/active", s.Active)
		router.Delete("/:id", s.routes.Delete)
		router.Post("/:id/decision", s.routes.Decide)
		router.Post("/:id/revert", s.routes.Revert)
		router.Put("/:id/rejection-reason", s.routes.RejectionReason)
	})
}

type startBody struct {
	Start    string `json:"start" validate:"required"`
	Location string `json:"location"`
	Reason   string `json:"reason" validate:"required"`
}

type endBody struct {
	End string `json:"end" validate:"required"`
}

// Start opens a new on-duty visit for the acting user.
func (s *Service) Start(c *fiber.Ctx) error {
	var body startBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	start, err := requests.ParseTimestamp(body.Start)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := s.engine.StartDuty(workflow.StartDutyInput{
		OwnerID:  handler.ActorID(c),
		Start:    start,
		Location: body.Location,
		Reason:   body.Reason,
	})
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(requests.Render(request))
}

// End closes the acting user's open visit, which hands the log to the
// owner's approving manager for a decision.
func (s *Service) End(c *fiber.Ctx) error {
	requestID, err := c.ParamsInt("id")
	if err != nil || requestID < 1 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request id"})
	}

	var body endBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	end, err := requests.ParseTimestamp(body.End)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := s.engine.EndDuty(uint64(requestID), handler.ActorID(c), end)
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.JSON(requests.Render(request))
}

// Active lists the in-progress visits the acting user may oversee.
func (s *Service) Active(c *fiber.Ctx) error {
	items, err := s.engine.ListActiveDuty(handler.ActorID(c))
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.JSON(requests.RenderList(items))
}
