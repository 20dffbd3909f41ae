package absence

import (
	"github.com/presencehq/presence-backend-go/internal/pkg/validator"
)

// DayOverride customizes the period for one date inside the range;
// dates without an override default to FULL_DAY.
type DayOverride struct {
	Date      string `json:"date"`
	Period    string `json:"period"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

type CreateAbsenceRequest struct {
	UserID                string        `json:"user_id"`
	StartDate             string        `json:"start_date"`
	EndDate               string        `json:"end_date"`
	Category              string        `json:"category"`
	Reason                *string       `json:"reason"`
	SupportingDocumentURL *string       `json:"supporting_document_url"`
	Days                  []DayOverride `json:"days"`
}

func (r *CreateAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be formatted as YYYY-MM-DD",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be formatted as YYYY-MM-DD",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if !isValidCategory(r.Category) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "unknown absence category",
		})
	}

	for _, d := range r.Days {
		if _, ok := validator.IsValidDate(d.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "days",
				Message: "day dates must be formatted as YYYY-MM-DD",
			})
			break
		}
		switch DayPeriod(d.Period) {
		case DayPeriodAM, DayPeriodPM, DayPeriodFullDay:
		default:
			errs = append(errs, validator.ValidationError{
				Field:   "days",
				Message: "day period must be AM, PM or FULL_DAY",
			})
		}
		for _, clock := range []string{d.StartTime, d.EndTime} {
			if clock == "" {
				continue
			}
			if _, ok := validator.IsValidClockTime(clock); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   "days",
					Message: "day times must be formatted as HH:MM",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateAbsenceRequest struct {
	ID                    string         `json:"-"`
	StartDate             *string        `json:"start_date"`
	EndDate               *string        `json:"end_date"`
	Category              *string        `json:"category"`
	Reason                *string        `json:"reason"`
	SupportingDocumentURL *string        `json:"supporting_document_url"`
	Days                  *[]DayOverride `json:"days"`
}

func (r *UpdateAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be formatted as YYYY-MM-DD",
			})
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be formatted as YYYY-MM-DD",
			})
		}
	}
	if r.Category != nil && !isValidCategory(*r.Category) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "unknown absence category",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TransitionStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *TransitionStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	switch Status(r.Status) {
	case StatusApproved, StatusRejected:
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be APPROVED or REJECTED",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func isValidCategory(s string) bool {
	for _, c := range CategoryValues {
		if c == s {
			return true
		}
	}
	return false
}

type DayResponse struct {
	Date      string  `json:"date"`
	Period    string  `json:"period"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

type AbsenceResponse struct {
	ID                    string        `json:"id"`
	UserID                string        `json:"user_id"`
	StartDate             string        `json:"start_date"`
	EndDate               string        `json:"end_date"`
	Category              string        `json:"category"`
	Status                string        `json:"status"`
	ApprovedBy            *string       `json:"approved_by,omitempty"`
	ApprovedAt            *string       `json:"approved_at,omitempty"`
	Reason                *string       `json:"reason,omitempty"`
	SupportingDocumentURL *string       `json:"supporting_document_url,omitempty"`
	Days                  []DayResponse `json:"days"`
	CreatedAt             string        `json:"created_at"`
	UpdatedAt             string        `json:"updated_at"`
}

type ListAbsencesResponse struct {
	TotalCount int               `json:"total_count"`
	Absences   []AbsenceResponse `json:"absences"`
}
