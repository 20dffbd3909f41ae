package user

import "context"

// Directory defines read access to the user/role directory. The rest of
// the system treats it as an external collaborator: roles arrive already
// normalized into the typed set.
type Directory interface {
	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (User, error)

	// ListByRole retrieves every user holding the given role
	ListByRole(ctx context.Context, role Role) ([]User, error)

	// SystemUser resolves the reserved system identity.
	// Returns ErrSystemUserNotFound when it is absent.
	SystemUser(ctx context.Context) (User, error)
}
