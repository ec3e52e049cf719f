package directory

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/db/models"
)

const (
	adminID       uint64 = 1
	managerID     uint64 = 2
	employeeID    uint64 = 3
	peerID        uint64 = 4
	rivalID       uint64 = 5
	unassignedID  uint64 = 6
	adminRoleID   uint   = 1
	managerRoleID uint   = 2
	workerRoleID  uint   = 3
)

func uintPtr(v uint) *uint       { return &v }
func uint64Ptr(v uint64) *uint64 { return &v }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.LeaveType{},
		&models.LeaveAllotment{},
	)
	require.NoError(t, err)

	roles := []models.Role{
		{
			ID:               adminRoleID,
			Name:             "administrator",
			HierarchyRank:    0,
			ManageUsers:      models.ScopeAll,
			ViewUsers:        models.ScopeAll,
			ManageRoles:      true,
			ManageLeaveTypes: true,
		},
		{
			ID:            managerRoleID,
			Name:          "manager",
			DisplayName:   "Manager",
			HierarchyRank: 3,
			ManageUsers:   models.ScopeSubordinates,
			ViewUsers:     models.ScopeSubordinates,
			ManageRoles:   true,
		},
		{
			ID:            workerRoleID,
			Name:          "employee",
			HierarchyRank: 5,
		},
	}
	require.NoError(t, db.Create(&roles).Error)

	users := []models.User{
		{ID: adminID, Active: true, Username: "admin", Email: "admin@example.com", RoleID: uintPtr(adminRoleID)},
		{ID: managerID, Active: true, Username: "manager", Email: "manager@example.com", RoleID: uintPtr(managerRoleID)},
		{
			ID: employeeID, Active: true, Username: "employee", Email: "employee@example.com",
			RoleID: uintPtr(workerRoleID), ApprovingManagerID: uint64Ptr(managerID),
		},
		{
			// Same rank as the manager, and reporting to them.
			ID: peerID, Active: true, Username: "peer", Email: "peer@example.com",
			RoleID: uintPtr(managerRoleID), ApprovingManagerID: uint64Ptr(managerID),
		},
		{
			// Same rank as the manager, no reporting line.
			ID: rivalID, Active: true, Username: "rival", Email: "rival@example.com",
			RoleID: uintPtr(managerRoleID),
		},
		{ID: unassignedID, Active: true, Username: "fresh", Email: "fresh@example.com"},
	}
	require.NoError(t, db.Create(&users).Error)

	return db
}

func setupAdmin(t *testing.T) (*Admin, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	store := NewStore(db, nil)

	return NewAdmin(db, store, authz.NewService(store)), db
}

func TestCreateUser(t *testing.T) {
	t.Run("admin creates a user with a role", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		user, err := admin.CreateUser(adminID, UserInput{
			Username: "newbie",
			Email:    "newbie@example.com",
			Password: "s3cret-pass",
			RoleID:   uintPtr(workerRoleID),
			Active:   true,
		})
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.True(t, user.VerifyPassword("s3cret-pass"))
	})

	t.Run("manager grants only lower-ranked roles", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		_, err := admin.CreateUser(managerID, UserInput{
			Username: "newbie",
			Email:    "newbie@example.com",
			Password: "s3cret-pass",
			RoleID:   uintPtr(managerRoleID),
		})

		var hierarchyErr *HierarchyError
		require.ErrorAs(t, err, &hierarchyErr)
		assert.Equal(t, "Manager", hierarchyErr.RoleDisplayName)

		_, err = admin.CreateUser(managerID, UserInput{
			Username: "newbie",
			Email:    "newbie@example.com",
			Password: "s3cret-pass",
			RoleID:   uintPtr(workerRoleID),
		})
		assert.NoError(t, err)
	})

	t.Run("duplicate username or email", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		_, err := admin.CreateUser(adminID, UserInput{
			Username: "someone",
			Email:    "employee@example.com",
			Password: "s3cret-pass",
		})
		assert.ErrorIs(t, err, ErrUserNameOrEmailExists)
	})

	t.Run("actor without manage-users is denied", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		_, err := admin.CreateUser(employeeID, UserInput{
			Username: "newbie",
			Email:    "newbie@example.com",
			Password: "s3cret-pass",
		})
		assert.ErrorIs(t, err, ErrDenied)
	})
}

func TestUpdateUserHierarchyGuard(t *testing.T) {
	admin, _ := setupAdmin(t)

	input := func(targetID uint64) UserInput {
		users, err := admin.ListVisibleUsers(adminID)
		require.NoError(t, err)

		for _, u := range users {
			if u.ID == targetID {
				return UserInput{
					Email:              u.Email,
					FirstName:          "Edited",
					RoleID:             u.RoleID,
					ApprovingManagerID: u.ApprovingManagerID,
					Active:             u.Active,
				}
			}
		}

		t.Fatalf("user %d not seeded", targetID)

		return UserInput{}
	}

	t.Run("lower-ranked target is editable", func(t *testing.T) {
		user, err := admin.UpdateUser(managerID, employeeID, input(employeeID))
		require.NoError(t, err)
		assert.Equal(t, "Edited", user.FirstName)
	})

	t.Run("same rank needs the reporting line", func(t *testing.T) {
		_, err := admin.UpdateUser(managerID, peerID, input(peerID))
		assert.NoError(t, err)

		_, err = admin.UpdateUser(managerID, rivalID, input(rivalID))

		var hierarchyErr *HierarchyError
		assert.ErrorAs(t, err, &hierarchyErr)
	})

	t.Run("higher-ranked target is never editable", func(t *testing.T) {
		_, err := admin.UpdateUser(managerID, adminID, input(adminID))

		var hierarchyErr *HierarchyError
		assert.ErrorAs(t, err, &hierarchyErr)
	})

	t.Run("unprovisioned target counts as lowest authority", func(t *testing.T) {
		_, err := admin.UpdateUser(managerID, unassignedID, input(unassignedID))
		assert.NoError(t, err)
	})

	t.Run("rank zero is unconstrained", func(t *testing.T) {
		_, err := admin.UpdateUser(adminID, managerID, input(managerID))
		assert.NoError(t, err)
	})

	t.Run("a role change must itself be grantable", func(t *testing.T) {
		in := input(employeeID)
		in.RoleID = uintPtr(managerRoleID)

		_, err := admin.UpdateUser(managerID, employeeID, in)

		var hierarchyErr *HierarchyError
		assert.ErrorAs(t, err, &hierarchyErr)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("deletes a lower-ranked target", func(t *testing.T) {
		admin, db := setupAdmin(t)

		require.NoError(t, admin.DeleteUser(managerID, employeeID))

		var count int64
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", employeeID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("self-deletion is refused", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		assert.ErrorIs(t, admin.DeleteUser(managerID, managerID), ErrCannotDeleteSelf)
	})

	t.Run("guarded like an edit", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		err := admin.DeleteUser(managerID, rivalID)

		var hierarchyErr *HierarchyError
		assert.ErrorAs(t, err, &hierarchyErr)
	})

	t.Run("unknown target", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		assert.ErrorIs(t, admin.DeleteUser(adminID, 999), authz.ErrUserNotFound)
	})
}

func TestResetPassword(t *testing.T) {
	admin, db := setupAdmin(t)

	require.NoError(t, admin.ResetPassword(managerID, employeeID, "rotated-pass"))

	var user models.User
	require.NoError(t, db.First(&user, employeeID).Error)
	assert.True(t, user.VerifyPassword("rotated-pass"))

	t.Run("guarded like an edit", func(t *testing.T) {
		err := admin.ResetPassword(managerID, rivalID, "rotated-pass")

		var hierarchyErr *HierarchyError
		assert.ErrorAs(t, err, &hierarchyErr)
	})
}

func TestAssignAllotment(t *testing.T) {
	admin, db := setupAdmin(t)

	leaveType := models.LeaveType{Name: "annual", DefaultDays: 20}
	require.NoError(t, db.Create(&leaveType).Error)

	require.NoError(t, admin.AssignAllotment(adminID, employeeID, leaveType.ID, 25))

	// Assigning again updates in place.
	require.NoError(t, admin.AssignAllotment(adminID, employeeID, leaveType.ID, 30))

	var allotments []models.LeaveAllotment
	require.NoError(t, db.Where("user_id = ?", employeeID).Find(&allotments).Error)
	require.Len(t, allotments, 1)
	assert.Equal(t, 30, allotments[0].Days)

	t.Run("requires manage-leave-types", func(t *testing.T) {
		err := admin.AssignAllotment(managerID, employeeID, leaveType.ID, 25)
		assert.ErrorIs(t, err, ErrDenied)
	})
}

func TestListVisibleUsers(t *testing.T) {
	admin, _ := setupAdmin(t)

	t.Run("all scope lists everyone", func(t *testing.T) {
		users, err := admin.ListVisibleUsers(adminID)
		require.NoError(t, err)
		assert.Len(t, users, 6)
	})

	t.Run("subordinate scope lists self and reports", func(t *testing.T) {
		users, err := admin.ListVisibleUsers(managerID)
		require.NoError(t, err)

		ids := make([]uint64, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}

		assert.ElementsMatch(t, []uint64{managerID, employeeID, peerID}, ids)
	})

	t.Run("denied actor gets an empty success", func(t *testing.T) {
		users, err := admin.ListVisibleUsers(employeeID)
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestRoleAdministration(t *testing.T) {
	t.Run("create and list", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		role, err := admin.CreateRole(adminID, RoleInput{
			Name:          "auditor",
			DisplayName:   "Auditor",
			HierarchyRank: 2,
			ViewReports:   models.ScopeAll,
		})
		require.NoError(t, err)
		assert.NotZero(t, role.ID)

		roles, err := admin.ListRoles(adminID)
		require.NoError(t, err)
		require.Len(t, roles, 4)
		// Ordered by rank.
		assert.Equal(t, "administrator", roles[0].Name)
		assert.Equal(t, "auditor", roles[1].Name)
	})

	t.Run("duplicate name", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		_, err := admin.CreateRole(adminID, RoleInput{Name: "manager", HierarchyRank: 4})
		assert.ErrorIs(t, err, ErrRoleNameExists)
	})

	t.Run("minting at or above own rank is blocked", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		_, err := admin.CreateRole(managerID, RoleInput{Name: "shift-lead", HierarchyRank: 3})

		var hierarchyErr *HierarchyError
		assert.ErrorAs(t, err, &hierarchyErr)

		_, err = admin.CreateRole(managerID, RoleInput{Name: "shift-lead", HierarchyRank: 4})
		assert.NoError(t, err)
	})

	t.Run("update moves grants and rank", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		updated, err := admin.UpdateRole(adminID, workerRoleID, RoleInput{
			Name:          "employee",
			HierarchyRank: 6,
			ApproveLeave:  models.ScopeSubordinates,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(6), updated.HierarchyRank)
		assert.Equal(t, models.ScopeSubordinates, updated.ApproveLeave)
	})

	t.Run("update cannot lift a role above the editor", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		_, err := admin.UpdateRole(managerID, workerRoleID, RoleInput{
			Name:          "employee",
			HierarchyRank: 1,
		})

		var hierarchyErr *HierarchyError
		assert.ErrorAs(t, err, &hierarchyErr)
	})

	t.Run("delete refuses referenced roles", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		err := admin.DeleteRole(adminID, workerRoleID)
		assert.ErrorIs(t, err, ErrRoleInUse)
	})

	t.Run("delete removes an unused role", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		role, err := admin.CreateRole(adminID, RoleInput{Name: "temp", HierarchyRank: 9})
		require.NoError(t, err)

		require.NoError(t, admin.DeleteRole(adminID, role.ID))
		assert.ErrorIs(t, admin.DeleteRole(adminID, role.ID), authz.ErrRoleNotFound)
	})

	t.Run("listing needs an administrative capability", func(t *testing.T) {
		admin, _ := setupAdmin(t)

		roles, err := admin.ListRoles(employeeID)
		require.NoError(t, err)
		assert.Empty(t, roles)
	})
}
