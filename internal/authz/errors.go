package authz

import "errors"

var (
	// ErrUserNotFound is returned by a Directory when a user id is unknown.
	ErrUserNotFound = errors.New("user not found")

	// ErrRoleNotFound is returned by a Directory when a role id is unknown.
	ErrRoleNotFound = errors.New("role not found")
)
