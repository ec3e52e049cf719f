// Package reports provides the cross-kind review listing for approvers and
// report viewers.
package reports

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/db/models"
	"github.com/attenda/attenda/internal/web/handler"
	"github.com/attenda/attenda/internal/web/handler/requests"
	"github.com/attenda/attenda/internal/workflow"
)

// Path is the base path for report listings.
const Path = handler.RootPath + "reports"

// Service is the reports handler service.
type Service struct {
	cfg    *config.Config
	engine *workflow.Engine
}

// Handler is the reports handler.
var Handler = Service{}

// Init registers the report routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, engine *workflow.Engine) {
	if app == nil || cfg == nil || engine == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.engine = engine

	app.Get(Path+"/:kind", s.Get)
}

// Get lists the requests of one kind visible to the acting user, optionally
// filtered by ?status=. An actor without any viewing capability gets an
// empty list.
func (s *Service) Get(c *fiber.Ctx) error {
	kind := workflow.Kind(c.Params("kind"))
	if !kind.Valid() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "unknown request kind"})
	}

	var status *models.RequestStatus

	if raw := c.Query("status", ""); raw != "" {
		parsed := models.RequestStatus(raw)
		if !parsed.Valid() {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "unknown status"})
		}

		status = &parsed
	}

	items, err := s.engine.ListVisible(kind, handler.ActorID(c), status)
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.JSON(requests.RenderList(items))
}
