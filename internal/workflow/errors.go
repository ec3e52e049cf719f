package workflow

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDenied is returned when the acting user's capability scope does not
	// cover the request owner.
	ErrDenied = errors.New("not authorized to act on this request")

	// ErrNotFound is returned for an unknown request id.
	ErrNotFound = errors.New("request not found")

	// ErrInvalidTransition is returned for a transition the state machine
	// does not allow, e.g. rejecting without a reason or re-deciding an
	// already decided request differently without reverting first.
	ErrInvalidTransition = errors.New("invalid request state transition")

	// ErrValidation is returned for a malformed interval or a missing
	// required field.
	ErrValidation = errors.New("invalid request payload")

	// ErrInvalidKind is returned when an operation does not apply to the
	// given request kind.
	ErrInvalidKind = errors.New("operation not supported for this request kind")
)

// ConflictError reports a colliding request, carrying its id and interval so
// callers can render it. A zero End means the colliding request is a still
// open on-duty visit.
type ConflictError struct {
	RequestID uint64
	Start     time.Time
	End       time.Time
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e.End.IsZero() {
		return fmt.Sprintf("request conflicts with open request %d (since %s)",
			e.RequestID,
			e.Start.Format("2006-01-02 15:04"),
		)
	}

	return fmt.Sprintf("request overlaps with request %d (%s - %s)",
		e.RequestID,
		e.Start.Format("2006-01-02 15:04"),
		e.End.Format("2006-01-02 15:04"),
	)
}
