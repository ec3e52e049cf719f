package authz

import "github.com/attenda/attenda/internal/db/models"

// Capability names a sensitive action gated by the authorization engine.
// Scoped capabilities resolve to none/subordinates/all; boolean capabilities
// map to all (granted) or none (not granted).
type Capability string

const (
	// CapApproveLeave allows deciding leave requests.
	CapApproveLeave Capability = "leave.approve"
	// CapApproveOnDuty allows deciding closed on-duty logs.
	CapApproveOnDuty Capability = "onduty.approve"
	// CapApproveTimeOff allows deciding time-off logs.
	CapApproveTimeOff Capability = "timeoff.approve"
	// CapManageUsers allows creating and editing user accounts.
	CapManageUsers Capability = "users.manage"
	// CapViewUsers allows listing user accounts.
	CapViewUsers Capability = "users.view"
	// CapViewReports allows viewing attendance report listings.
	CapViewReports Capability = "reports.view"
	// CapManageActiveOnDuty allows inspecting open on-duty visits.
	CapManageActiveOnDuty Capability = "onduty.active.manage"
	// CapManageSchedule allows managing work schedules.
	CapManageSchedule Capability = "schedule.manage"
	// CapViewActivities allows viewing activity history.
	CapViewActivities Capability = "activities.view"
	// CapManageSystemSettings allows editing the system settings store.
	CapManageSystemSettings Capability = "settings.system.manage"

	// CapAccessWebApplication allows signing in to the web application.
	CapAccessWebApplication Capability = "web.access"
	// CapManageLeaveTypes allows managing leave types and allotments.
	CapManageLeaveTypes Capability = "leavetypes.manage"
	// CapManageRoles allows managing role records.
	CapManageRoles Capability = "roles.manage"
	// CapManageEmailSettings allows editing the outbound email configuration.
	CapManageEmailSettings Capability = "settings.email.manage"
)

// boolScope converts a boolean capability grant to a scope.
func boolScope(granted bool) models.Scope {
	if granted {
		return models.ScopeAll
	}

	return models.ScopeNone
}

// Grant returns the scope a role stores for the given capability.
// Unknown capabilities resolve to none.
func Grant(role *models.Role, capability Capability) models.Scope {
	if role == nil {
		return models.ScopeNone
	}

	switch capability {
	case CapApproveLeave:
		return role.ApproveLeave
	case CapApproveOnDuty:
		return role.ApproveOnDuty
	case CapApproveTimeOff:
		return role.ApproveTimeOff
	case CapManageUsers:
		return role.ManageUsers
	case CapViewUsers:
		return role.ViewUsers
	case CapViewReports:
		return role.ViewReports
	case CapManageActiveOnDuty:
		return role.ManageActiveOnDuty
	case CapManageSchedule:
		return role.ManageSchedule
	case CapViewActivities:
		return role.ViewActivities
	case CapManageSystemSettings:
		return role.ManageSystemSettings
	case CapAccessWebApplication:
		return boolScope(role.AccessWebApplication)
	case CapManageLeaveTypes:
		return boolScope(role.ManageLeaveTypes)
	case CapManageRoles:
		return boolScope(role.ManageRoles)
	case CapManageEmailSettings:
		return boolScope(role.ManageEmailSettings)
	default:
		return models.ScopeNone
	}
}
