package workflow

import "github.com/attenda/attenda/internal/authz"

// Kind identifies one of the three concrete request kinds sharing the
// lifecycle engine.
type Kind string

const (
	// KindLeave is a full-day date-range leave request.
	KindLeave Kind = "leave"
	// KindOnDuty is an on-duty visit log with an open/closed sub-state.
	KindOnDuty Kind = "on_duty"
	// KindTimeOff is a partial-day absence on a single calendar date.
	KindTimeOff Kind = "time_off"
)

// Valid reports whether k is a known request kind.
func (k Kind) Valid() bool {
	return k == KindLeave || k == KindOnDuty || k == KindTimeOff
}

// ApproveCapability returns the capability that gates deciding requests of
// this kind.
func (k Kind) ApproveCapability() authz.Capability {
	switch k {
	case KindOnDuty:
		return authz.CapApproveOnDuty
	case KindTimeOff:
		return authz.CapApproveTimeOff
	default:
		return authz.CapApproveLeave
	}
}
