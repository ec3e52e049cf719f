package workflow

import (
	"strings"
	"time"

	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/db/models"
)

// Engine drives the request lifecycle for all three kinds.
// It is request-scoped and stateless between calls; the only shared state is
// behind the Store and Directory ports.
type Engine struct {
	store    Store
	auth     *authz.Service
	dir      authz.Directory
	notifier Notifier
}

// NewEngine creates a lifecycle engine. A nil notifier is replaced by a
// NopNotifier.
func NewEngine(store Store, auth *authz.Service, dir authz.Directory, notifier Notifier) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &Engine{store: store, auth: auth, dir: dir, notifier: notifier}
}

// ApplyInput carries the owner-supplied fields of a new request.
type ApplyInput struct {
	Kind    Kind
	OwnerID uint64
	Start   time.Time
	End     time.Time
	Reason  string

	// LeaveTypeID classifies a leave request (optional, leave only).
	LeaveTypeID *uint
}

// Apply creates a new pending request after running the kind-specific
// overlap check. A collision yields a ConflictError naming the colliding
// request. On-duty visits are not applied for; they are opened with
// StartDuty and closed with EndDuty.
func (e *Engine) Apply(in ApplyInput) (*Request, error) {
	if in.Kind == KindOnDuty {
		return nil, ErrInvalidKind
	}

	if !in.Kind.Valid() {
		return nil, ErrInvalidKind
	}

	if err := validateInterval(in.Kind, in.Start, in.End); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Reason) == "" {
		return nil, ErrValidation
	}

	if err := e.checkOverlap(in.Kind, in.OwnerID, in.Start, in.End, 0); err != nil {
		return nil, err
	}

	request := &Request{
		Kind:        in.Kind,
		OwnerID:     in.OwnerID,
		Start:       in.Start,
		End:         in.End,
		Reason:      in.Reason,
		Status:      models.StatusPending,
		LeaveTypeID: in.LeaveTypeID,
	}

	if in.Kind == KindTimeOff {
		request.Date = dateOf(in.Start)
	}

	if err := e.store.Create(request); err != nil {
		return nil, err
	}

	return request, nil
}

// Decide transitions a pending request to approved or rejected.
// The actor's approve-capability scope must cover the request owner.
// Rejection requires a non-empty reason; approval clears any prior one.
// Repeating an identical decision is a no-op; a different decision on an
// already decided request is an invalid transition (revert first).
func (e *Engine) Decide(
	kind Kind,
	requestID, actorID uint64,
	status models.RequestStatus,
	rejectionReason string,
) (*Request, error) {
	if !status.Decided() {
		return nil, ErrValidation
	}

	rejectionReason = strings.TrimSpace(rejectionReason)
	if status == models.StatusRejected && rejectionReason == "" {
		return nil, ErrInvalidTransition
	}

	request, err := e.store.Find(kind, requestID)
	if err != nil {
		return nil, err
	}

	// An open on-duty visit is never a pending approval.
	if request.Open {
		return nil, ErrInvalidTransition
	}

	if err := e.authorizeApprover(kind, actorID, request.OwnerID); err != nil {
		return nil, err
	}

	if request.Status == status {
		if status == models.StatusApproved {
			return request, nil
		}

		if request.RejectionReason != nil && *request.RejectionReason == rejectionReason {
			return request, nil
		}

		// Changing the recorded reason goes through EditRejectionReason.
		return nil, ErrInvalidTransition
	}

	if request.Status.Decided() {
		return nil, ErrInvalidTransition
	}

	prior := request.Status
	request.Status = status
	request.ApproverID = &actorID

	if status == models.StatusRejected {
		request.RejectionReason = &rejectionReason
	} else {
		request.RejectionReason = nil
	}

	if err := e.store.UpdateDecision(request, prior); err != nil {
		return nil, err
	}

	e.notifier.NotifyDecision(request.ID, kind, status)

	return request, nil
}

// Revert moves a decided request back to pending, clearing the approver and
// the rejection reason. Same authorization as Decide. Reverting a pending
// request is a no-op.
func (e *Engine) Revert(kind Kind, requestID, actorID uint64) (*Request, error) {
	request, err := e.store.Find(kind, requestID)
	if err != nil {
		return nil, err
	}

	if err := e.authorizeApprover(kind, actorID, request.OwnerID); err != nil {
		return nil, err
	}

	if request.Status == models.StatusPending {
		return request, nil
	}

	prior := request.Status
	request.Status = models.StatusPending
	request.ApproverID = nil
	request.RejectionReason = nil

	if err := e.store.UpdateDecision(request, prior); err != nil {
		return nil, err
	}

	return request, nil
}

// EditRejectionReason replaces the reason on a rejected request. Only the
// recorded approver may rewrite it, a stricter check than Decide: changing
// history stays author-scoped.
func (e *Engine) EditRejectionReason(kind Kind, requestID, actorID uint64, text string) (*Request, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrValidation
	}

	request, err := e.store.Find(kind, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status != models.StatusRejected {
		return nil, ErrInvalidTransition
	}

	if request.ApproverID == nil || *request.ApproverID != actorID {
		return nil, ErrDenied
	}

	request.RejectionReason = &text

	if err := e.store.UpdateDecision(request, models.StatusRejected); err != nil {
		return nil, err
	}

	return request, nil
}

// EditInput carries the owner-editable fields of a pending request.
type EditInput struct {
	Start       time.Time
	End         time.Time
	Reason      string
	LeaveTypeID *uint
}

// Edit updates a pending request. Only the owner may edit, and only while
// the request is pending; the overlap check excludes the request itself.
func (e *Engine) Edit(kind Kind, requestID, ownerID uint64, in EditInput) (*Request, error) {
	if kind == KindOnDuty {
		return nil, ErrInvalidKind
	}

	request, err := e.store.Find(kind, requestID)
	if err != nil {
		return nil, err
	}

	if request.OwnerID != ownerID {
		return nil, ErrDenied
	}

	if request.Status != models.StatusPending {
		return nil, ErrInvalidTransition
	}

	if err := validateInterval(kind, in.Start, in.End); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Reason) == "" {
		return nil, ErrValidation
	}

	if err := e.checkOverlap(kind, ownerID, in.Start, in.End, requestID); err != nil {
		return nil, err
	}

	request.Start = in.Start
	request.End = in.End
	request.Reason = in.Reason

	if kind == KindLeave {
		request.LeaveTypeID = in.LeaveTypeID
	}

	if kind == KindTimeOff {
		request.Date = dateOf(in.Start)
	}

	if err := e.store.Update(request); err != nil {
		return nil, err
	}

	return request, nil
}

// Delete removes a pending request. Only the owner may delete, and only
// while the request is pending.
func (e *Engine) Delete(kind Kind, requestID, ownerID uint64) error {
	request, err := e.store.Find(kind, requestID)
	if err != nil {
		return err
	}

	if request.OwnerID != ownerID {
		return ErrDenied
	}

	if request.Status != models.StatusPending {
		return ErrInvalidTransition
	}

	return e.store.Delete(kind, requestID)
}

// ListVisible returns the requests of a kind the actor may see, optionally
// filtered by status. The approve capability for the kind and view-reports
// are combined with OR. A denied actor gets an empty, successful result:
// "nothing to see" is not an error.
func (e *Engine) ListVisible(kind Kind, actorID uint64, status *models.RequestStatus) ([]Request, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}

	decision, err := e.auth.EvaluateAny(actorID, kind.ApproveCapability(), authz.CapViewReports)
	if err != nil {
		return nil, err
	}

	switch decision.Access {
	case authz.AllowedAll:
		return e.store.List(kind, nil, status)
	case authz.AllowedSubordinates:
		return e.store.List(kind, decision.VisibleUserIDs, status)
	default:
		return []Request{}, nil
	}
}

// ListOwn returns the owner's own requests of a kind, optionally filtered by
// status.
func (e *Engine) ListOwn(kind Kind, ownerID uint64, status *models.RequestStatus) ([]Request, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}

	return e.store.List(kind, []uint64{ownerID}, status)
}

// authorizeApprover checks that the actor's approve capability for the kind
// covers the request owner.
func (e *Engine) authorizeApprover(kind Kind, actorID, ownerID uint64) error {
	decision, err := e.auth.Evaluate(actorID, kind.ApproveCapability())
	if err != nil {
		return err
	}

	if !decision.Covers(ownerID) {
		return ErrDenied
	}

	return nil
}

// checkOverlap runs the kind-specific overlap rule against the owner's
// pending and approved requests.
func (e *Engine) checkOverlap(kind Kind, ownerID uint64, start, end time.Time, excludeID uint64) error {
	colliding, err := e.store.FindOverlapping(kind, ownerID, start, end, excludeID)
	if err != nil {
		return err
	}

	if colliding != nil {
		return &ConflictError{RequestID: colliding.ID, Start: colliding.Start, End: colliding.End}
	}

	return nil
}

// validateInterval rejects malformed intervals. Both endpoints are required
// and the interval must not run backwards; a time-off interval must stay on
// a single calendar date.
func validateInterval(kind Kind, start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrValidation
	}

	if end.Before(start) {
		return ErrValidation
	}

	if kind == KindTimeOff && !dateOf(start).Equal(dateOf(end)) {
		return ErrValidation
	}

	return nil
}

// dateOf truncates a timestamp to its calendar date.
func dateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
