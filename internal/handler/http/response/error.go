package response

import (
	"errors"
	"net/http"

	"github.com/presencehq/presence-backend-go/internal/domain/absence"
	"github.com/presencehq/presence-backend-go/internal/domain/auth"
	"github.com/presencehq/presence-backend-go/internal/domain/leave"
	"github.com/presencehq/presence-backend-go/internal/domain/punch"
	"github.com/presencehq/presence-backend-go/internal/domain/report"
	"github.com/presencehq/presence-backend-go/internal/domain/user"
	"github.com/presencehq/presence-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// User directory errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrSystemUserNotFound):
		InternalServerError(w, "Reporting identity is not configured")

	// Punch domain errors
	case errors.Is(err, punch.ErrSamePunchTwice):
		Conflict(w, err.Error())
	case errors.Is(err, punch.ErrPunchNotFound):
		NotFound(w, "Punch not found")

	// Absence domain errors
	case errors.Is(err, absence.ErrAbsenceNotFound):
		NotFound(w, "Absence not found")
	case errors.Is(err, absence.ErrAlreadyProcessed):
		Conflict(w, "Absence has already been processed")
	case errors.Is(err, absence.ErrInvalidStatus):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, absence.ErrForbidden):
		Forbidden(w, err.Error())

	// Leave ledger errors
	case errors.Is(err, leave.ErrAccountNotFound):
		NotFound(w, "Leave account not found")
	case errors.Is(err, leave.ErrAccountExists):
		Conflict(w, "Leave account already exists for this user and type")
	case errors.Is(err, leave.ErrEntryNotFound):
		NotFound(w, "Ledger entry not found")
	case errors.Is(err, leave.ErrDuplicateAbsenceRef):
		Conflict(w, "A ledger entry already references this absence")

	// Report errors
	case errors.Is(err, report.ErrDuplicateRuleKey):
		Conflict(w, "An identical report already exists")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
