package punch

import "context"

// Service defines business logic for punch operations
type Service interface {
	// RecordPunch appends a clock event for the actor (or an explicit
	// target), enforcing IN/OUT alternation, then synchronously runs
	// attendance rule evaluation over the event's local calendar day.
	RecordPunch(ctx context.Context, actorID string, req RecordPunchRequest) (PunchResponse, error)

	// ListPunches retrieves punches for a user. Unbounded calls return
	// newest first; time-bounded calls return oldest first.
	ListPunches(ctx context.Context, filter ListPunchesFilter) (ListPunchesResponse, error)
}
