package models

import "time"

// Scope is the breadth of a capability grant held by a role.
// It decides whose records an actor holding the role may see or act on.
type Scope string

const (
	// ScopeNone grants no access at all.
	ScopeNone Scope = "none"
	// ScopeSubordinates grants access to the actor's direct reports plus the actor themselves.
	ScopeSubordinates Scope = "subordinates"
	// ScopeAll grants unrestricted access.
	ScopeAll Scope = "all"
)

// Valid reports whether s is one of the three known scope values.
func (s Scope) Valid() bool {
	return s == ScopeNone || s == ScopeSubordinates || s == ScopeAll
}

// Role represents a role in the role-based access control (RBAC) system.
// A role carries a numeric hierarchy rank (0 is the highest authority, larger
// numbers are progressively lower) and a fixed set of capability grants.
// Scoped capabilities take one of none/subordinates/all; the remaining
// capabilities are plain booleans.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Name is the unique name of the role (e.g., "administrator", "manager").
	Name string `gorm:"unique;size:100;not null"`
	// DisplayName is the human-readable name shown in listings and error messages.
	DisplayName string `gorm:"size:100"`
	// HierarchyRank is the authority level of the role. Rank 0 is unconstrained
	// by the hierarchy guard regardless of the explicit grants below.
	HierarchyRank uint `gorm:"not null;default:100"`

	// ApproveLeave scopes who the role may decide leave requests for.
	ApproveLeave Scope `gorm:"type:varchar(16);not null;default:'none'"`
	// ApproveOnDuty scopes who the role may decide on-duty logs for.
	ApproveOnDuty Scope `gorm:"type:varchar(16);not null;default:'none'"`
	// ApproveTimeOff scopes who the role may decide time-off logs for.
	ApproveTimeOff Scope `gorm:"type:varchar(16);not null;default:'none'"`
	// ManageUsers scopes which users the role may create, edit or reset passwords for.
	ManageUsers Scope `gorm:"type:varchar(16);not null;default:'none'"`
	// ViewUsers scopes which users the role may list.
	ViewUsers Scope `gorm:"type:varchar(16);not null;default:'none'"`
	// ViewReports scopes whose attendance records appear in report listings.
	ViewReports Scope `gorm:"type:varchar(16);not null;default:'none'"`
	// ManageActiveOnDuty scopes whose open on-duty visits the role may inspect.
	ManageActiveOnDuty Scope `gorm:"type:varchar(16);not null;default:'none'"`
	// ManageSchedule scopes whose work schedules the role may manage.
	ManageSchedule Scope `gorm:"type:varchar(16);not null;default:'none'"`
	// ViewActivities scopes whose activity history the role may view.
	ViewActivities Scope `gorm:"type:varchar(16);not null;default:'none'"`
	// ManageSystemSettings scopes access to the system settings store.
	ManageSystemSettings Scope `gorm:"type:varchar(16);not null;default:'none'"`

	// AccessWebApplication allows the role to sign in to the web application at all.
	AccessWebApplication bool `gorm:"not null;default:false"`
	// ManageLeaveTypes allows creating and editing leave types and allotments.
	ManageLeaveTypes bool `gorm:"not null;default:false"`
	// ManageRoles allows creating and editing role records.
	ManageRoles bool `gorm:"not null;default:false"`
	// ManageEmailSettings allows editing the outbound email configuration.
	ManageEmailSettings bool `gorm:"not null;default:false"`

	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
// This overrides GORM's default pluralized table naming.
func (Role) TableName() string {
	return "roles"
}
