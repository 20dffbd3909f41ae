package postgresql

import (
	"context"
	"fmt"

	"github.com/presencehq/presence-backend-go/internal/domain/team"
	"github.com/presencehq/presence-backend-go/internal/domain/user"
	"github.com/presencehq/presence-backend-go/internal/pkg/database"
)

type teamDirectory struct {
	db *database.DB
}

// TeamsOfUser implements team.Directory.
func (r *teamDirectory) TeamsOfUser(ctx context.Context, userID string) ([]team.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT t.id, t.name, t.created_at, t.updated_at
		FROM team_members tm
		JOIN teams t ON t.id = tm.team_id
		WHERE tm.user_id = $1
		ORDER BY t.id
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team memberships: %w", err)
	}
	defer rows.Close()

	var teams []team.Team
	for rows.Next() {
		var t team.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}

	return teams, nil
}

// UsersOfTeam implements team.Directory.
func (r *teamDirectory) UsersOfTeam(ctx context.Context, teamID string) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.email, u.first_name, u.last_name, u.password_hash, u.roles,
			   u.created_at, u.updated_at
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY u.email
	`

	rows, err := q.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team members: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		var rawRoles []string
		err := rows.Scan(
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &rawRoles,
			&u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		u.Roles = user.ParseRoles(rawRoles)
		users = append(users, u)
	}

	return users, nil
}

func NewTeamDirectory(db *database.DB) team.Directory {
	return &teamDirectory{db: db}
}
