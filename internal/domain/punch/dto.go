package punch

import (
	"time"

	"github.com/presencehq/presence-backend-go/internal/pkg/validator"
)

type RecordPunchRequest struct {
	// UserID optionally targets another user; empty means the actor
	// punches for themselves.
	UserID    string     `json:"user_id"`
	Kind      string     `json:"kind"`
	Timestamp *time.Time `json:"timestamp"`
}

func (r *RecordPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Kind) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind is required",
		})
	} else if r.Kind != string(KindIn) && r.Kind != string(KindOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be IN or OUT",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListPunchesFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
}

type PunchResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
	CreatedAt string `json:"created_at"`
}

type ListPunchesResponse struct {
	TotalCount int             `json:"total_count"`
	Punches    []PunchResponse `json:"punches"`
}
