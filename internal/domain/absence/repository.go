package absence

import "context"

// Repository defines data access for absences and their days.
type Repository interface {
	// Create inserts an absence
	Create(ctx context.Context, a Absence) (Absence, error)

	// GetByID retrieves an absence by id
	GetByID(ctx context.Context, id string) (Absence, error)

	// ListByUser returns a user's absences, newest first
	ListByUser(ctx context.Context, userID string) ([]Absence, error)

	// Update persists mutable fields of an absence
	Update(ctx context.Context, a Absence) error

	// Delete removes an absence and, through cascade, its days
	Delete(ctx context.Context, id string) error

	// GetDays returns the day rows of an absence ordered by date
	GetDays(ctx context.Context, absenceID string) ([]Day, error)

	// ReplaceDays deletes and re-inserts the day rows of an absence
	ReplaceDays(ctx context.Context, absenceID string, days []Day) error
}
