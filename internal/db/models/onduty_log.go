package models

import "time"

// OnDutyLog represents an on-duty visit (a work trip outside the office).
// It has an open/closed sub-state independent of the approval status: the
// visit is open while EndTime is nil and only becomes eligible for the
// approval workflow once the owner closes it.
type OnDutyLog struct {
	// ID is the unique identifier for the on-duty log.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the owner of the visit.
	UserID uint64 `gorm:"not null;index"`
	// User is the owning user (loaded via foreign key).
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// StartTime is when the visit began.
	StartTime time.Time `gorm:"not null"`
	// EndTime is when the visit ended. Nil while the visit is in progress.
	EndTime *time.Time
	// Location is where the visit took place.
	Location string `gorm:"size:255"`
	// Reason is the free-text purpose of the visit.
	Reason string `gorm:"type:text"`
	// Status is the approval state. Meaningful once EndTime is set; an open
	// visit is never a pending approval.
	Status RequestStatus `gorm:"type:varchar(16);not null;default:'pending';index"`
	// ApproverID is the user who decided the log. Non-nil iff decided.
	ApproverID *uint64
	// RejectionReason is set iff Status is rejected.
	RejectionReason *string `gorm:"type:text"`
	// CreatedAt is the timestamp when the log was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the log was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the OnDutyLog model.
func (OnDutyLog) TableName() string {
	return "onduty_logs"
}

// Open reports whether the visit is still in progress.
func (l *OnDutyLog) Open() bool {
	return l.EndTime == nil
}
