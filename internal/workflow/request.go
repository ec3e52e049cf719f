package workflow

import (
	"time"

	"github.com/attenda/attenda/internal/db/models"
)

// Request is the kind-independent snapshot the lifecycle engine operates on.
// The persisted layout of all three kinds maps onto this shape; that shared
// shape is the contract that keeps the engine generic.
type Request struct {
	ID      uint64
	Kind    Kind
	OwnerID uint64

	// Start and End bound the request interval. For leave both are dates;
	// for time-off both fall on Date; for on-duty they are timestamps.
	Start time.Time
	End   time.Time
	// Date is the calendar date of a time-off log.
	Date time.Time
	// Open is true for an on-duty visit still in progress (no end time).
	Open bool

	Reason          string
	Status          models.RequestStatus
	ApproverID      *uint64
	RejectionReason *string

	// LeaveTypeID classifies a leave request; nil for other kinds.
	LeaveTypeID *uint
	// Location is the visit location of an on-duty log.
	Location string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the persistence port of the lifecycle engine, implemented once
// over the three request tables.
type Store interface {
	// Find returns the request or ErrNotFound.
	Find(kind Kind, id uint64) (*Request, error)
	// Create inserts a new request and fills in its id and timestamps.
	Create(r *Request) error
	// Update persists owner-editable fields (interval, reason) of a request.
	Update(r *Request) error
	// UpdateDecision persists status, approver and rejection reason, guarded
	// by a compare-and-set on the prior status. Returns ErrInvalidTransition
	// when a concurrent decision got there first.
	UpdateDecision(r *Request, prior models.RequestStatus) error
	// Delete removes the request or returns ErrNotFound.
	Delete(kind Kind, id uint64) error
	// FindOverlapping returns the first pending or approved request of the
	// owner whose interval collides with [start, end], excluding excludeID,
	// or nil when there is no collision.
	FindOverlapping(kind Kind, ownerID uint64, start, end time.Time, excludeID uint64) (*Request, error)
	// FindOpen returns the owner's in-progress on-duty visit, or nil.
	FindOpen(ownerID uint64) (*Request, error)
	// List returns requests of the kind, restricted to the given owners
	// (nil means no owner restriction) and optionally to one status.
	// Open on-duty visits are excluded from pending listings.
	List(kind Kind, ownerIDs []uint64, status *models.RequestStatus) ([]Request, error)
	// CreateApproval records the on-duty approval side-record.
	CreateApproval(onDutyLogID, managerID uint64) error
}

// Notifier is the fire-and-forget notification port. Implementations must
// swallow delivery failures; a committed transition is never rolled back
// because of a downstream notification fault.
type Notifier interface {
	NotifyDecision(requestID uint64, kind Kind, outcome models.RequestStatus)
	NotifyPendingApproval(requestID uint64, kind Kind, managerID uint64)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// NotifyDecision implements Notifier.
func (NopNotifier) NotifyDecision(uint64, Kind, models.RequestStatus) {}

// NotifyPendingApproval implements Notifier.
func (NopNotifier) NotifyPendingApproval(uint64, Kind, uint64) {}
