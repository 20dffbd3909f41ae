package user

import "errors"

// User directory errors
var (
	ErrUserNotFound = errors.New("user not found")

	// ErrSystemUserNotFound signals a deployment defect: the system
	// identity that authors compliance reports is missing. Never
	// swallowed by callers.
	ErrSystemUserNotFound = errors.New("system user not configured")

	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
