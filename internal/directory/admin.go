package directory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/db/models"
)

// Admin hosts the user administration operations. Every operation is gated
// twice: the actor must hold the relevant capability at all, and the
// hierarchy guard must permit acting on the target's role rank. All five
// rank-sensitive call sites (create user, edit user, reset password, edit
// role, assign allotments) delegate to the same two predicates.
type Admin struct {
	db    *gorm.DB
	store *Store
	auth  *authz.Service
}

// NewAdmin creates the administration service.
func NewAdmin(db *gorm.DB, store *Store, auth *authz.Service) *Admin {
	return &Admin{db: db, store: store, auth: auth}
}

// UserInput carries the fields of a user create or update.
type UserInput struct {
	Username           string
	Email              string
	Password           string
	FirstName          string
	LastName           string
	RoleID             *uint
	ApprovingManagerID *uint64
	Active             bool
}

// CreateUser creates a new user. The actor must hold manage-users and must
// be allowed to grant the target role per the hierarchy guard.
func (a *Admin) CreateUser(actorID uint64, in UserInput) (*models.User, error) {
	actorRank, err := a.requireCapability(actorID, authz.CapManageUsers)
	if err != nil {
		return nil, err
	}

	if in.RoleID != nil {
		role, err := a.store.GetRole(*in.RoleID)
		if err != nil {
			return nil, err
		}

		if !authz.CanAssignRole(actorRank, role.HierarchyRank) {
			return nil, &HierarchyError{RoleDisplayName: roleDisplayName(role)}
		}
	}

	var existing models.User

	err = a.db.Where("username = ? OR email = ?", in.Username, in.Email).First(&existing).Error
	if err == nil {
		return nil, ErrUserNameOrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := models.User{
		Active:             in.Active,
		Username:           in.Username,
		Email:              in.Email,
		Password:           models.HashPassword(in.Password),
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		RoleID:             in.RoleID,
		ApprovingManagerID: in.ApprovingManagerID,
	}

	if err := a.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// UpdateUser edits an existing user. The hierarchy guard compares ranks and
// permits a same-rank edit only when the actor is the target's approving
// manager. A role change additionally requires the new role to be grantable.
func (a *Admin) UpdateUser(actorID, targetID uint64, in UserInput) (*models.User, error) {
	actorRank, err := a.requireCapability(actorID, authz.CapManageUsers)
	if err != nil {
		return nil, err
	}

	target, err := a.store.GetUser(targetID)
	if err != nil {
		return nil, err
	}

	if err := a.guardTarget(actorID, actorRank, target); err != nil {
		return nil, err
	}

	roleChanged := !equalRoleID(target.RoleID, in.RoleID)
	if roleChanged && in.RoleID != nil {
		role, err := a.store.GetRole(*in.RoleID)
		if err != nil {
			return nil, err
		}

		if !authz.CanAssignRole(actorRank, role.HierarchyRank) {
			return nil, &HierarchyError{RoleDisplayName: roleDisplayName(role)}
		}
	}

	updates := map[string]any{
		"email":                in.Email,
		"first_name":           in.FirstName,
		"last_name":            in.LastName,
		"role_id":              in.RoleID,
		"approving_manager_id": in.ApprovingManagerID,
		"active":               in.Active,
	}

	if err := a.db.Model(&models.User{}).Where("id = ?", targetID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return a.store.GetUser(targetID)
}

// ResetPassword sets a new password for the target user (admin function),
// guarded like an edit.
func (a *Admin) ResetPassword(actorID, targetID uint64, newPassword string) error {
	actorRank, err := a.requireCapability(actorID, authz.CapManageUsers)
	if err != nil {
		return err
	}

	target, err := a.store.GetUser(targetID)
	if err != nil {
		return err
	}

	if err := a.guardTarget(actorID, actorRank, target); err != nil {
		return err
	}

	err = a.db.Model(&models.User{}).
		Where("id = ?", targetID).
		Update("password", models.HashPassword(newPassword)).Error
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	return nil
}

// DeleteUser removes a user account, guarded like an edit. Actors cannot
// delete themselves.
func (a *Admin) DeleteUser(actorID, targetID uint64) error {
	if actorID == targetID {
		return ErrCannotDeleteSelf
	}

	actorRank, err := a.requireCapability(actorID, authz.CapManageUsers)
	if err != nil {
		return err
	}

	target, err := a.store.GetUser(targetID)
	if err != nil {
		return err
	}

	if err := a.guardTarget(actorID, actorRank, target); err != nil {
		return err
	}

	if err := a.db.Delete(&models.User{}, targetID).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// AssignAllotment sets a per-user leave allotment, guarded like a user edit
// plus the manage-leave-types capability.
func (a *Admin) AssignAllotment(actorID, targetID uint64, leaveTypeID uint, days int) error {
	decision, err := a.auth.Evaluate(actorID, authz.CapManageLeaveTypes)
	if err != nil {
		return err
	}

	if !decision.Allowed() {
		return ErrDenied
	}

	actorRank, err := a.actorRank(actorID)
	if err != nil {
		return err
	}

	target, err := a.store.GetUser(targetID)
	if err != nil {
		return err
	}

	if err := a.guardTarget(actorID, actorRank, target); err != nil {
		return err
	}

	allotment := models.LeaveAllotment{
		UserID:      targetID,
		LeaveTypeID: leaveTypeID,
		Days:        days,
	}

	err = a.db.Where("user_id = ? AND leave_type_id = ?", targetID, leaveTypeID).
		Assign(map[string]any{"days": days}).
		FirstOrCreate(&allotment).Error
	if err != nil {
		return fmt.Errorf("failed to assign allotment: %w", err)
	}

	return nil
}

// ListVisibleUsers returns the users the actor may list, combining the
// view-users and manage-users capabilities with OR. A denied actor gets an
// empty, successful result.
func (a *Admin) ListVisibleUsers(actorID uint64) ([]models.User, error) {
	decision, err := a.auth.EvaluateAny(actorID, authz.CapViewUsers, authz.CapManageUsers)
	if err != nil {
		return nil, err
	}

	var users []models.User

	switch decision.Access {
	case authz.AllowedAll:
		if err := a.db.Find(&users).Error; err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
	case authz.AllowedSubordinates:
		err := a.db.Where("id IN ?", decision.VisibleUserIDs).Find(&users).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
	default:
		users = []models.User{}
	}

	return users, nil
}

// requireCapability resolves the actor's rank after checking they hold the
// capability at any scope.
func (a *Admin) requireCapability(actorID uint64, capability authz.Capability) (uint, error) {
	decision, err := a.auth.Evaluate(actorID, capability)
	if err != nil {
		return 0, err
	}

	if !decision.Allowed() {
		return 0, ErrDenied
	}

	return a.actorRank(actorID)
}

func (a *Admin) actorRank(actorID uint64) (uint, error) {
	actor, err := a.store.GetUser(actorID)
	if err != nil {
		return 0, err
	}

	return a.store.roleRank(actor.RoleID)
}

// guardTarget applies CanActOnRole against the target's current role.
func (a *Admin) guardTarget(actorID uint64, actorRank uint, target *models.User) error {
	targetRank, err := a.store.roleRank(target.RoleID)
	if err != nil {
		return err
	}

	if authz.CanActOnRole(actorRank, targetRank, a.store.IsDirectManager(actorID, target)) {
		return nil
	}

	name := "unassigned"

	if target.RoleID != nil {
		if role, err := a.store.GetRole(*target.RoleID); err == nil {
			name = roleDisplayName(role)
		}
	}

	return &HierarchyError{RoleDisplayName: name}
}

func roleDisplayName(role *models.Role) string {
	if role.DisplayName != "" {
		return role.DisplayName
	}

	return role.Name
}

func equalRoleID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}
