package models

import "time"

// TimeOffLog represents a partial-day absence: a start and end time of day on
// a single calendar date. Overlap checks only compare requests on the same
// date.
type TimeOffLog struct {
	// ID is the unique identifier for the time-off log.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the owner of the log.
	UserID uint64 `gorm:"not null;index:idx_timeoff_logs_user_date"`
	// User is the owning user (loaded via foreign key).
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Date is the calendar date the absence falls on.
	Date time.Time `gorm:"type:date;not null;index:idx_timeoff_logs_user_date"`
	// StartTime is when the absence begins on that date.
	StartTime time.Time `gorm:"not null"`
	// EndTime is when the absence ends on that date.
	EndTime time.Time `gorm:"not null"`
	// Reason is the free-text justification supplied by the owner.
	Reason string `gorm:"type:text"`
	// Status is the approval state.
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

// TableName specifies the database table name for the TimeOffLog model.
func (TimeOffLog) TableName() string {
	return "timeoff_logs"
}
