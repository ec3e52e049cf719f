package models

import "time"

// LeaveRequest represents a request for a range of full days off.
// The interval is inclusive on both ends; overlap checks against the owner's
// other pending and approved requests happen before a new row is created.
type LeaveRequest struct {
	// ID is the unique identifier for the leave request.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the owner of the request.
	UserID uint64 `gorm:"not null;index:idx_leave_requests_user_dates"`
	// User is the owning user (loaded via foreign key).
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// LeaveTypeID optionally classifies the leave (annual, sick, ...).
	LeaveTypeID *uint
	// LeaveType is the associated leave type.
	LeaveType *LeaveType `gorm:"foreignKey:LeaveTypeID"`
	// StartDate is the first day of leave (date precision).
	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_user_dates"`
	// EndDate is the last day of leave, inclusive.
	EndDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_user_dates"`
	// Reason is the free-text justification supplied by the owner.
	Reason string `gorm:"type:text"`
	// Status is the approval state. Authoritative; see OnDutyApproval for the
	// on-duty side-record caveat.
	Status RequestStatus `gorm:"type:varchar(16);not null;default:'pending';index"`
	// ApproverID is the user who decided the request. Non-nil iff decided.
	ApproverID *uint64
	// RejectionReason is set iff Status is rejected.
	RejectionReason *string `gorm:"type:text"`
	// CreatedAt is the timestamp when the request was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the request was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the LeaveRequest model.
func (LeaveRequest) TableName() string {
	return "leave_requests"
}
