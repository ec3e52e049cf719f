package authz

// Access is the outcome class of an authorization evaluation.
type Access int

const (
	// Denied means the capability grants no access.
	Denied Access = iota
	// AllowedSubordinates means access is restricted to the visible user set.
	AllowedSubordinates
	// AllowedAll means access is unrestricted.
	AllowedAll
)

// String implements fmt.Stringer for log output.
func (a Access) String() string {
	switch a {
	case AllowedAll:
		return "all"
	case AllowedSubordinates:
		return "subordinates"
	default:
		return "denied"
	}
}

// Decision is the result of evaluating an actor against a capability.
// For AllowedSubordinates, VisibleUserIDs holds the actor's direct reports
// plus the actor's own id; for the other outcomes it is nil.
type Decision struct {
	Access         Access
	VisibleUserIDs []uint64
}

// Allowed reports whether the decision grants any access at all.
func (d Decision) Allowed() bool {
	return d.Access != Denied
}

// Covers reports whether the decision permits acting on records owned by the
// given user.
func (d Decision) Covers(userID uint64) bool {
	switch d.Access {
	case AllowedAll:
		return true
	case AllowedSubordinates:
		for _, id := range d.VisibleUserIDs {
			if id == userID {
				return true
			}
		}

		return false
	default:
		return false
	}
}
