package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/presencehq/presence-backend-go/internal/domain/user"
	"github.com/presencehq/presence-backend-go/internal/pkg/database"
)

type userDirectory struct {
	db *database.DB
}

// GetByID implements user.Directory.
func (r *userDirectory) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, email, first_name, last_name, password_hash, roles, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(q.QueryRow(ctx, query, id))
}

// GetByEmail implements user.Directory.
func (r *userDirectory) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, email, first_name, last_name, password_hash, roles, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	return r.scanUser(q.QueryRow(ctx, query, email))
}

// ListByRole implements user.Directory.
func (r *userDirectory) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, email, first_name, last_name, password_hash, roles, created_at, updated_at
		FROM users
		WHERE $1 = ANY(roles)
		ORDER BY email
	`

	rows, err := q.Query(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to query users by role: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := r.scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, nil
}

// SystemUser implements user.Directory.
func (r *userDirectory) SystemUser(ctx context.Context) (user.User, error) {
	u, err := r.GetByEmail(ctx, user.SystemEmail)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, user.ErrSystemUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *userDirectory) scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	var rawRoles []string
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &rawRoles,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	// Roles are stored as text[]; normalization to the typed set is the
	// adapter's concern.
	u.Roles = user.ParseRoles(rawRoles)
	return u, nil
}

func (r *userDirectory) scanUserRow(rows pgx.Rows) (user.User, error) {
	var u user.User
	var rawRoles []string
	err := rows.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &rawRoles,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	u.Roles = user.ParseRoles(rawRoles)
	return u, nil
}

func NewUserDirectory(db *database.DB) user.Directory {
	return &userDirectory{db: db}
}
