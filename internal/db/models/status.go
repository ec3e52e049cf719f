package models

// RequestStatus is the approval state shared by leave requests, on-duty logs
// and time-off logs.
type RequestStatus string

const (
	// StatusPending is the initial state of every request.
	StatusPending RequestStatus = "pending"
	// StatusApproved means an approver accepted the request.
	StatusApproved RequestStatus = "approved"
	// StatusRejected means an approver declined the request. A rejected
	// request always carries a rejection reason.
	StatusRejected RequestStatus = "rejected"
)

// Valid reports whether s is one of the three known statuses.
func (s RequestStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Decided reports whether s is a terminal decision state.
func (s RequestStatus) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}
