// Package directory resolves users, roles and direct reports for the
// authorization engine, and hosts the guarded user/role administration
// operations built on the hierarchy guard.
package directory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/db/models"
)

// Store implements authz.Directory over gorm, with a read-through role cache
// in front of the role table.
type Store struct {
	db    *gorm.DB
	roles *authz.RoleCache
}

// NewStore creates a directory store. The role cache may be nil, in which
// case every role lookup goes to the database.
func NewStore(db *gorm.DB, roles *authz.RoleCache) *Store {
	return &Store{db: db, roles: roles}
}

// GetUser implements authz.Directory.
func (s *Store) GetUser(id uint64) (*models.User, error) {
	var user models.User

	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, authz.ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return &user, nil
}

// GetUserByUsername returns the user with the given username.
func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	var user models.User

	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, authz.ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return &user, nil
}

// GetRole implements authz.Directory, reading through the role cache.
func (s *Store) GetRole(id uint) (*models.Role, error) {
	if role, ok := s.roles.Get(id); ok {
		return role, nil
	}

	var role models.Role

	err := s.db.First(&role, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, authz.ErrRoleNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load role: %w", err)
	}

	s.roles.Put(&role)

	return &role, nil
}

// GetDirectReportIDs implements authz.Directory. Exactly one hop: users whose
// approving manager is the given user, never the transitive subtree.
func (s *Store) GetDirectReportIDs(managerID uint64) ([]uint64, error) {
	var ids []uint64

	err := s.db.Model(&models.User{}).
		Where("approving_manager_id = ?", managerID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load direct reports: %w", err)
	}

	return ids, nil
}

// IsDirectManager reports whether actor is the target's approving manager.
func (s *Store) IsDirectManager(actorID uint64, target *models.User) bool {
	return target != nil &&
		target.ApprovingManagerID != nil &&
		*target.ApprovingManagerID == actorID
}

// roleRank resolves a role id to its hierarchy rank. A nil role id counts as
// the lowest possible authority so unprovisioned users never block an edit.
func (s *Store) roleRank(roleID *uint) (uint, error) {
	if roleID == nil {
		return ^uint(0), nil
	}

	role, err := s.GetRole(*roleID)
	if err != nil {
		return 0, err
	}

	return role.HierarchyRank, nil
}
