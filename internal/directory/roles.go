package directory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/db/models"
)

// RoleInput carries the editable fields of a role record.
type RoleInput struct {
	Name          string
	DisplayName   string
	HierarchyRank uint

	ApproveLeave         models.Scope
	ApproveOnDuty        models.Scope
	ApproveTimeOff       models.Scope
	ManageUsers          models.Scope
	ViewUsers            models.Scope
	ViewReports          models.Scope
	ManageActiveOnDuty   models.Scope
	ManageSchedule       models.Scope
	ViewActivities       models.Scope
	ManageSystemSettings models.Scope

	AccessWebApplication bool
	ManageLeaveTypes     bool
	ManageRoles          bool
	ManageEmailSettings  bool
}

// CreateRole creates a role. The actor must hold manage-roles and may not
// mint a role at or above their own rank unless their rank is 0.
func (a *Admin) CreateRole(actorID uint64, in RoleInput) (*models.Role, error) {
	actorRank, err := a.requireCapability(actorID, authz.CapManageRoles)
	if err != nil {
		return nil, err
	}

	if !authz.CanAssignRole(actorRank, in.HierarchyRank) {
		return nil, &HierarchyError{RoleDisplayName: in.DisplayName}
	}

	var existing models.Role

	err = a.db.Where("name = ?", in.Name).First(&existing).Error
	if err == nil {
		return nil, ErrRoleNameExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing role: %w", err)
	}

	role := roleFromInput(in)

	if err := a.db.Create(role).Error; err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	return role, nil
}

// UpdateRole edits a role. An update that would move the rank to or above
// the editor's own rank is rejected unless the editor's rank is 0. The role
// cache entry is invalidated before the new grants commit so stale
// privileges do not outlive the update.
func (a *Admin) UpdateRole(actorID uint64, roleID uint, in RoleInput) (*models.Role, error) {
	actorRank, err := a.requireCapability(actorID, authz.CapManageRoles)
	if err != nil {
		return nil, err
	}

	current, err := a.store.GetRole(roleID)
	if err != nil {
		return nil, err
	}

	if !authz.CanAssignRole(actorRank, in.HierarchyRank) {
		return nil, &HierarchyError{RoleDisplayName: roleDisplayName(current)}
	}

	a.store.roles.Invalidate(roleID)

	if err := a.db.Model(&models.Role{}).Where("id = ?", roleID).Updates(roleUpdates(in)).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return a.store.GetRole(roleID)
}

// DeleteRole removes a role that no user references.
func (a *Admin) DeleteRole(actorID uint64, roleID uint) error {
	if _, err := a.requireCapability(actorID, authz.CapManageRoles); err != nil {
		return err
	}

	var count int64

	err := a.db.Model(&models.User{}).Where("role_id = ?", roleID).Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to count role references: %w", err)
	}

	if count > 0 {
		return ErrRoleInUse
	}

	a.store.roles.Invalidate(roleID)

	tx := a.db.Delete(&models.Role{}, roleID)
	if tx.Error != nil {
		return fmt.Errorf("failed to delete role: %w", tx.Error)
	}

	if tx.RowsAffected == 0 {
		return authz.ErrRoleNotFound
	}

	return nil
}

// ListRoles returns all roles; any actor holding manage-users, manage-roles
// or view-users may enumerate them for form rendering.
func (a *Admin) ListRoles(actorID uint64) ([]models.Role, error) {
	decision, err := a.auth.EvaluateAny(actorID,
		authz.CapManageRoles, authz.CapManageUsers, authz.CapViewUsers)
	if err != nil {
		return nil, err
	}

	if !decision.Allowed() {
		return []models.Role{}, nil
	}

	var roles []models.Role

	if err := a.db.Order("hierarchy_rank ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return roles, nil
}

func roleFromInput(in RoleInput) *models.Role {
	return &models.Role{
		Name:          in.Name,
		DisplayName:   in.DisplayName,
		HierarchyRank: in.HierarchyRank,

		ApproveLeave:         in.ApproveLeave,
		ApproveOnDuty:        in.ApproveOnDuty,
		ApproveTimeOff:       in.ApproveTimeOff,
		ManageUsers:          in.ManageUsers,
		ViewUsers:            in.ViewUsers,
		ViewReports:          in.ViewReports,
		ManageActiveOnDuty:   in.ManageActiveOnDuty,
		ManageSchedule:       in.ManageSchedule,
		ViewActivities:       in.ViewActivities,
		ManageSystemSettings: in.ManageSystemSettings,

		AccessWebApplication: in.AccessWebApplication,
		ManageLeaveTypes:     in.ManageLeaveTypes,
		ManageRoles:          in.ManageRoles,
		ManageEmailSettings:  in.ManageEmailSettings,
	}
}

func roleUpdates(in RoleInput) map[string]any {
	return map[string]any{
		"name":           in.Name,
		"display_name":   in.DisplayName,
		"hierarchy_rank": in.HierarchyRank,

		"approve_leave":          in.ApproveLeave,
		"approve_on_duty":        in.ApproveOnDuty,
		"approve_time_off":       in.ApproveTimeOff,
		"manage_users":           in.ManageUsers,
		"view_users":             in.ViewUsers,
		"view_reports":           in.ViewReports,
		"manage_active_on_duty":  in.ManageActiveOnDuty,
		"manage_schedule":        in.ManageSchedule,
		"view_activities":        in.ViewActivities,
		"manage_system_settings": in.ManageSystemSettings,

		"access_web_application": in.AccessWebApplication,
		"manage_leave_types":     in.ManageLeaveTypes,
		"manage_roles":           in.ManageRoles,
		"manage_email_settings":  in.ManageEmailSettings,
	}
}
