// Package requests implements the kind-bound JSON handlers shared by the
// leave, on-duty and time-off routes. Each kind package binds Routes to its
// path; the handlers translate JSON payloads into lifecycle engine calls.
package requests

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/attenda/attenda/internal/db/models"
	"github.com/attenda/attenda/internal/web/handler"
	"github.com/attenda/attenda/internal/workflow"
)

// dateLayout is accepted besides RFC3339 for date-only intervals.
const dateLayout = "2006-01-02"

// Routes bundles the engine handlers for one request kind.
type Routes struct {
	Kind     workflow.Kind
	Engine   *workflow.Engine
	Validate *validator.Validate
}

// Response is the JSON rendering of a request snapshot.
type Response struct {
	ID              uint64     `json:"id"`
	Kind            string     `json:"kind"`
	OwnerID         uint64     `json:"owner_id"`
	Start           time.Time  `json:"start"`
	End             *time.Time `json:"end,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	Open            bool       `json:"open,omitempty"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	ApproverID      *uint64    `json:"approver_id,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	LeaveTypeID     *uint      `json:"leave_type_id,omitempty"`
	Location        string     `json:"location,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Render converts a request snapshot for JSON output.
func Render(r *workflow.Request) Response {
	out := Response{
		ID:              r.ID,
		Kind:            string(r.Kind),
		OwnerID:         r.OwnerID,
		Start:           r.Start,
		Open:            r.Open,
		Reason:          r.Reason,
		Status:          string(r.Status),
		ApproverID:      r.ApproverID,
		RejectionReason: r.RejectionReason,
		LeaveTypeID:     r.LeaveTypeID,
		Location:        r.Location,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}

	if !r.Open && !r.End.IsZero() {
		end := r.End
		out.End = &end
	}

	if !r.Date.IsZero() {
		date := r.Date
		out.Date = &date
	}

	return out
}

// RenderList converts a request slice for JSON output. A nil or empty input
// still yields an empty array, never null.
func RenderList(items []workflow.Request) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, Render(&items[i]))
	}

	return out
}

type applyBody struct {
	Start       string `json:"start" validate:"required"`
	End         string `json:"end" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
	LeaveTypeID *uint  `json:"leave_type_id"`
}

type decisionBody struct {
	Status          string `json:"status" validate:"required,oneof=approved rejected"`
	RejectionReason string `json:"rejection_reason"`
}

type reasonBody struct {
	RejectionReason string `json:"rejection_reason" validate:"required"`
}

// Apply handles POST: create a new pending request for the acting user.
func (r *Routes) Apply(c *fiber.Ctx) error {
	var body applyBody
	if err := r.parse(c, &body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	start, end, err := parseInterval(body.Start, body.End)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := r.Engine.Apply(workflow.ApplyInput{
		Kind:        r.Kind,
		OwnerID:     handler.ActorID(c),
		Start:       start,
		End:         end,
		Reason:      body.Reason,
		LeaveTypeID: body.LeaveTypeID,
	})
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(Render(request))
}

// ListOwn handles GET: the acting user's own requests, optionally filtered
// by ?status=.
func (r *Routes) ListOwn(c *fiber.Ctx) error {
	status, err := statusFilter(c)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	items, err := r.Engine.ListOwn(r.Kind, handler.ActorID(c), status)
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.JSON(RenderList(items))
}

// ListVisible handles GET review: requests visible to the acting approver.
// An actor without the capability gets an empty list, not an error.
func (r *Routes) ListVisible(c *fiber.Ctx) error {
	status, err := statusFilter(c)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	items, err := r.Engine.ListVisible(r.Kind, handler.ActorID(c), status)
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.JSON(RenderList(items))
}

// Edit handles PUT :id: owner edits of a still pending request.
func (r *Routes) Edit(c *fiber.Ctx) error {
	requestID, err := pathID(c)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	var body applyBody
	if err := r.parse(c, &body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	start, end, err := parseInterval(body.Start, body.End)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := r.Engine.Edit(r.Kind, requestID, handler.ActorID(c), workflow.EditInput{
		Start:       start,
		End:         end,
		Reason:      body.Reason,
		LeaveTypeID: body.LeaveTypeID,
	})
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.JSON(Render(request))
}

// Delete handles DELETE :id: owner withdrawal of a pending request.
func (r *Routes) Delete(c *fiber.Ctx) error {
	requestID, err := pathID(c)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	if err := r.Engine.Delete(r.Kind, requestID, handler.ActorID(c)); err != nil {
		return handler.MapError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Decide handles POST :id/decision: approve or reject.
func (r *Routes) Decide(c *fiber.Ctx) error {
	requestID, err := pathID(c)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	var body decisionBody
	if err := r.parse(c, &body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := r.Engine.Decide(r.Kind, requestID, handler.ActorID(c),
		models.RequestStatus(body.Status), body.RejectionReason)
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.JSON(Render(request))
}

// Revert handles POST :id/revert: put a decided request back to pending.
func (r *Routes) Revert(c *fiber.Ctx) error {
	requestID, err := pathID(c)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := r.Engine.Revert(r.Kind, requestID, handler.ActorID(c))
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.JSON(Render(request))
}

// RejectionReason handles PUT :id/rejection-reason: the deciding approver
// rewords their rejection.
func (r *Routes) RejectionReason(c *fiber.Ctx) error {
	requestID, err := pathID(c)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	var body reasonBody
	if err := r.parse(c, &body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := r.Engine.EditRejectionReason(r.Kind, requestID, handler.ActorID(c), body.RejectionReason)
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.JSON(Render(request))
}

// errInvalidID reports a non-numeric or non-positive path id.
var errInvalidID = errors.New("invalid request id")

// parse decodes and validates a JSON body.
func (r *Routes) parse(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errors.New("invalid request body")
	}

	return r.Validate.Struct(out)
}

func pathID(c *fiber.Ctx) (uint64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, errInvalidID
	}

	return uint64(id), nil
}

func statusFilter(c *fiber.Ctx) (*models.RequestStatus, error) {
	raw := c.Query("status", "")
	if raw == "" {
		return nil, nil
	}

	status := models.RequestStatus(raw)
	if !status.Valid() {
		return nil, workflow.ErrValidation
	}

	return &status, nil
}

// ParseTimestamp accepts an RFC3339 timestamp or a bare date.
func ParseTimestamp(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}

	return time.Parse(dateLayout, value)
}

func parseInterval(start, end string) (time.Time, time.Time, error) {
	from, err := ParseTimestamp(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	to, err := ParseTimestamp(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return from, to, nil
}
