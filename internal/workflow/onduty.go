package workflow

import (
	"strings"
	"time"

	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/db/models"
)

// The on-duty sub-machine precedes the approval workflow: a visit is opened,
// stays open while in progress, and only its closing makes it eligible for
// approval.

// StartDutyInput carries the fields of a new on-duty visit.
type StartDutyInput struct {
	OwnerID  uint64
	Start    time.Time
	Location string
	Reason   string
}

// StartDuty opens an on-duty visit for the owner. An owner can have at most
// one visit in progress; a second open attempt reports the existing visit as
// a conflict.
func (e *Engine) StartDuty(in StartDutyInput) (*Request, error) {
	if in.Start.IsZero() || strings.TrimSpace(in.Reason) == "" {
		return nil, ErrValidation
	}

	open, err := e.store.FindOpen(in.OwnerID)
	if err != nil {
		return nil, err
	}

	// An open visit has no end yet, so the conflict carries only the start.
	if open != nil {
		return nil, &ConflictError{RequestID: open.ID, Start: open.Start}
	}

	request := &Request{
		Kind:     KindOnDuty,
		OwnerID:  in.OwnerID,
		Start:    in.Start,
		Open:     true,
		Location: in.Location,
		Reason:   in.Reason,
		Status:   models.StatusPending,
	}

	if err := e.store.Create(request); err != nil {
		return nil, err
	}

	return request, nil
}

// EndDuty closes an open visit, which puts it into the approval workflow.
// When the owner has a resolvable approving manager, the approval
// side-record is created and the manager is notified; without one the
// request stays pending and remains visible to all-scoped approvers.
// Side-record and notification failures never undo the committed close.
func (e *Engine) EndDuty(requestID, ownerID uint64, end time.Time) (*Request, error) {
	request, err := e.store.Find(KindOnDuty, requestID)
	if err != nil {
		return nil, err
	}

	if request.OwnerID != ownerID {
		return nil, ErrDenied
	}

	if !request.Open {
		return nil, ErrInvalidTransition
	}

	if end.IsZero() || end.Before(request.Start) {
		return nil, ErrValidation
	}

	request.End = end
	request.Open = false

	if err := e.store.Update(request); err != nil {
		return nil, err
	}

	owner, err := e.dir.GetUser(ownerID)
	if err != nil || owner.ApprovingManagerID == nil {
		return request, nil
	}

	// Swallowed on purpose: the close already committed.
	_ = e.store.CreateApproval(request.ID, *owner.ApprovingManagerID)

	e.notifier.NotifyPendingApproval(request.ID, KindOnDuty, *owner.ApprovingManagerID)

	return request, nil
}

// ListActiveDuty returns the open on-duty visits the actor may inspect,
// gated by the manage-active-on-duty capability. Denied yields an empty
// result, not an error.
func (e *Engine) ListActiveDuty(actorID uint64) ([]Request, error) {
	decision, err := e.auth.Evaluate(actorID, authz.CapManageActiveOnDuty)
	if err != nil {
		return nil, err
	}

	if !decision.Allowed() {
		return []Request{}, nil
	}

	var owners []uint64
	if decision.Access == authz.AllowedSubordinates {
		owners = decision.VisibleUserIDs
	}

	all, err := e.store.List(KindOnDuty, owners, nil)
	if err != nil {
		return nil, err
	}

	open := make([]Request, 0, len(all))

	for _, r := range all {
		if r.Open {
			open = append(open, r)
		}
	}

	return open, nil
}
