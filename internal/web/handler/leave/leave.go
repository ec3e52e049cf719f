// Package leave provides the JSON handlers for leave requests.
package leave

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/web/handler"
	"github.com/attenda/attenda/internal/web/handler/requests"
	"github.com/attenda/attenda/internal/workflow"
)

// Path is the base path for leave requests.
const Path = handler.RootPath + "leave"

// Service is the leave handler service.
type Service struct {
	cfg    *config.Config
	routes requests.Routes
}

// Handler is the leave handler.
var Handler = Service{}

// Init registers the leave routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, engine *workflow.Engine) {
	if app == nil || cfg == nil || engine == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.routes = requests.Routes{
		Kind:     workflow.KindLeave,
		Engine:   engine,
		Validate: validator.New(),
	}

	app.Route(Path, func(router fiber.Router) {
		router.Post(handler.RouterRootPath, s.routes.Apply)
		router.Get(handler.RouterRootPath, s.routes.ListOwn)
		router.Get("/review", s.routes.ListVisible)
		router.Put("/:id", s.routes.Edit)
		router.Delete("/:id", s.routes.Delete)
		router.Post("/:id/decision", s.routes.Decide)
		router.Post("/:id/revert", s.routes.Revert)
		router.Put("/:id/rejection-reason", s.routes.RejectionReason)
	})
}
