package absence

import "errors"

// Absence workflow errors
var (
	ErrAbsenceNotFound = errors.New("absence not found")

	// Status gate
	ErrAlreadyProcessed = errors.New("absence has already been approved or rejected")
	ErrInvalidStatus    = errors.New("target status must be APPROVED or REJECTED")

	// Authority
	ErrForbidden = errors.New("not allowed to act on this absence")
)
