package absence

import "context"

// Service defines the absence workflow. Every operation takes the acting
// user id explicitly; there is no ambient identity.
type Service interface {
	// CreateAbsence files a PENDING absence and generates its day rows
	CreateAbsence(ctx context.Context, actorID string, req CreateAbsenceRequest) (AbsenceResponse, error)

	// GetAbsence retrieves one absence with its days
	GetAbsence(ctx context.Context, actorID string, id string) (AbsenceResponse, error)

	// ListAbsences returns the absences of a user
	ListAbsences(ctx context.Context, actorID string, userID string) (ListAbsencesResponse, error)

	// UpdateAbsence edits fields; allowed for an admin at any time or
	// the owner while PENDING. Range/period changes regenerate days.
	UpdateAbsence(ctx context.Context, actorID string, req UpdateAbsenceRequest) (AbsenceResponse, error)

	// TransitionStatus moves PENDING to APPROVED or REJECTED and drives
	// the leave ledger accordingly.
	TransitionStatus(ctx context.Context, actorID string, req TransitionStatusRequest) (AbsenceResponse, error)

	// DeleteAbsence removes an absence (admin any time, owner while
	// PENDING), reversing any ledger debit first.
	DeleteAbsence(ctx context.Context, actorID string, id string) error
}
