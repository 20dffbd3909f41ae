package punch

import (
	"context"
	"time"
)

// Repository defines data access for the append-only punch ledger.
type Repository interface {
	// Create appends a punch event
	Create(ctx context.Context, p Punch) (Punch, error)

	// GetLatestByUser returns the most recent punch for a user by the
	// (timestamp desc, id desc) ordering key. Returns ErrPunchNotFound
	// when the user has no punches.
	GetLatestByUser(ctx context.Context, userID string) (Punch, error)

	// ListByUser returns punches for a user, newest first
	ListByUser(ctx context.Context, userID string) ([]Punch, error)

	// ListByUserBetween returns punches inside [from, to), oldest first.
	// Day-window slicing for the rule engine depends on this ordering.
	ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]Punch, error)
}
