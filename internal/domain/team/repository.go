package team

import (
	"context"

	"github.com/presencehq/presence-backend-go/internal/domain/user"
)

// Directory defines read access to team memberships.
type Directory interface {
	// TeamsOfUser returns every team the user belongs to
	TeamsOfUser(ctx context.Context, userID string) ([]Team, error)

	// UsersOfTeam returns the members of a team
	UsersOfTeam(ctx context.Context, teamID string) ([]user.User, error)
}
