package models

import "time"

// OnDutyApproval is the auxiliary row created when an on-duty visit closes
// and the owner has a resolvable approving manager. It exists for audit and
// listing purposes only; the OnDutyLog's own Status and ApproverID fields
// remain the authority on the decision.
type OnDutyApproval struct {
	// ID is the unique identifier for the approval record.
	ID uint64 `gorm:"primaryKey"`
	// OnDutyLogID is the target on-duty log.
	OnDutyLogID uint64 `gorm:"not null;index"`
	// OnDutyLog is the associated log (loaded via foreign key).
	OnDutyLog *OnDutyLog `gorm:"foreignKey:OnDutyLogID;constraint:OnDelete:CASCADE"`
	// ManagerID is the approving manager resolved at close time.
	ManagerID uint64 `gorm:"not null;index"`
	// CreatedAt is the timestamp when the record was created (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the OnDutyApproval model.
func (OnDutyApproval) TableName() string {
	return "onduty_approvals"
}
