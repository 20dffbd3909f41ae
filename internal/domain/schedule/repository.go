package schedule

import "context"

// SlotStore defines read access to the external work-schedule store.
type SlotStore interface {
	// SlotsForUser returns every declared slot for a user
	SlotsForUser(ctx context.Context, userID string) ([]Slot, error)
}
