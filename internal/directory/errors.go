package directory

import (
	"errors"
	"fmt"
)

var (
	// ErrDenied is returned when the actor lacks the required capability.
	ErrDenied = errors.New("not authorized")

	// ErrUserNameOrEmailExists is returned when attempting to create a user
	// with a username or email that already exists.
	ErrUserNameOrEmailExists = errors.New("user with username or email already exists")

	// ErrRoleNameExists is returned when attempting to create a role with a
	// name that already exists.
	ErrRoleNameExists = errors.New("role with this name already exists")

	// ErrRoleInUse is returned when attempting to delete a role still
	// referenced by users.
	ErrRoleInUse = errors.New("role is referenced by users and cannot be deleted")

	// ErrCannotDeleteSelf is returned when an actor tries to delete their
	// own account.
	ErrCannotDeleteSelf = errors.New("cannot delete own account")
)

// HierarchyError is returned when the hierarchy guard blocks an action.
// It names the blocked role so callers can render it.
type HierarchyError struct {
	RoleDisplayName string
}

// Error implements the error interface.
func (e *HierarchyError) Error() string {
	return fmt.Sprintf("hierarchy does not permit acting on role %q", e.RoleDisplayName)
}
