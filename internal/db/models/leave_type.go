package models

import "time"

// LeaveType classifies leave requests (annual, sick, unpaid, ...).
type LeaveType struct {
	// ID is the unique identifier for the leave type.
	ID uint `gorm:"primaryKey"`
	// Name is the unique machine name of the leave type.
	Name string `gorm:"unique;size:100;not null"`
	// DisplayName is the human-readable name shown to users.
	DisplayName string `gorm:"size:100"`
	// DefaultDays is the yearly allotment granted when no per-user override exists.
	DefaultDays int `gorm:"not null;default:0"`
	// CreatedAt is the timestamp when the leave type was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the leave type was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the LeaveType model.
func (LeaveType) TableName() string {
	return "leave_types"
}

// LeaveAllotment overrides the yearly day budget of one leave type for one
// user. Assigning an allotment is guarded by the same hierarchy predicate as
// editing the user.
type LeaveAllotment struct {
	// UserID is the user the allotment applies to.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// LeaveTypeID is the leave type being overridden.
	LeaveTypeID uint `gorm:"primaryKey;column:leave_type_id"`
	// Days is the number of days granted for the year.
	Days int `gorm:"not null"`
	// User is the associated user (loaded via foreign key).
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// LeaveType is the associated leave type (loaded via foreign key).
	LeaveType *LeaveType `gorm:"foreignKey:LeaveTypeID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the allotment was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the allotment was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the LeaveAllotment model.
func (LeaveAllotment) TableName() string {
	return "leave_allotments"
}
