package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/presencehq/presence-backend-go/internal/domain/punch"
	"github.com/presencehq/presence-backend-go/internal/pkg/database"
)

type punchRepository struct {
	db *database.DB
}

// Create implements punch.Repository.
func (r *punchRepository) Create(ctx context.Context, p punch.Punch) (punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punches (user_id, kind, ts)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, p.UserID, p.Kind, p.Timestamp).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return punch.Punch{}, fmt.Errorf("failed to create punch: %w", err)
	}

	return p, nil
}

// GetLatestByUser implements punch.Repository.
// The (ts DESC, id DESC) key breaks ties between simultaneous punches
// deterministically.
func (r *punchRepository) GetLatestByUser(ctx context.Context, userID string) (punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, kind, ts, created_at
		FROM punches
		WHERE user_id = $1
		ORDER BY ts DESC, id DESC
		LIMIT 1
	`

	var p punch.Punch
	err := q.QueryRow(ctx, query, userID).
		Scan(&p.ID, &p.UserID, &p.Kind, &p.Timestamp, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return punch.Punch{}, punch.ErrPunchNotFound
		}
		return punch.Punch{}, fmt.Errorf("failed to get latest punch: %w", err)
	}

	return p, nil
}

// ListByUser implements punch.Repository.
func (r *punchRepository) ListByUser(ctx context.Context, userID string) ([]punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, kind, ts, created_at
		FROM punches
		WHERE user_id = $1
		ORDER BY ts DESC, id DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query punches: %w", err)
	}
	defer rows.Close()

	return scanPunches(rows)
}

// ListByUserBetween implements punch.Repository.
func (r *punchRepository) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, kind, ts, created_at
		FROM punches
		WHERE user_id = $1
		  AND ts >= $2
		  AND ts < $3
		ORDER BY ts ASC, id ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query punches in range: %w", err)
	}
	defer rows.Close()

	return scanPunches(rows)
}

func scanPunches(rows pgx.Rows) ([]punch.Punch, error) {
	var punches []punch.Punch
	for rows.Next() {
		var p punch.Punch
		if err := rows.Scan(&p.ID, &p.UserID, &p.Kind, &p.Timestamp, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	return punches, nil
}

func NewPunchRepository(db *database.DB) punch.Repository {
	return &punchRepository{db: db}
}
