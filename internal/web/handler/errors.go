package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/directory"
	"github.com/attenda/attenda/internal/workflow"
)

// MapError translates a typed service error into a JSON error response.
// Authorization failures map to 403, unknown entities to 404, state and
// uniqueness conflicts to 409 and payload problems to 422. Anything not
// recognized is logged and returned as 500.
func MapError(c *fiber.Ctx, err error) error {
	var (
		conflict  *workflow.ConflictError
		hierarchy *directory.HierarchyError
	)

	switch {
	case errors.As(err, &conflict):
		body := fiber.Map{
			"error":      err.Error(),
			"request_id": conflict.RequestID,
			"start":      conflict.Start,
		}

		// A zero end marks a still open visit; don't render a fake endpoint.
		if !conflict.End.IsZero() {
			body["end"] = conflict.End
		}

		return c.Status(fiber.StatusConflict).JSON(body)
	case errors.As(err, &hierarchy):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, workflow.ErrDenied), errors.Is(err, directory.ErrDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, workflow.ErrNotFound),
		errors.Is(err, authz.ErrUserNotFound),
		errors.Is(err, authz.ErrRoleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, directory.ErrUserNameOrEmailExists),
		errors.Is(err, directory.ErrRoleNameExists),
		errors.Is(err, directory.ErrRoleInUse),
		errors.Is(err, directory.ErrCannotDeleteSelf):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, workflow.ErrValidation), errors.Is(err, workflow.ErrInvalidKind):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled service error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
