package leave

import (
	"github.com/presencehq/presence-backend-go/internal/pkg/validator"
)

type CreateAccountRequest struct {
	UserID            string  `json:"user_id"`
	LeaveTypeCode     string  `json:"leave_type_code"`
	OpeningBalance    string  `json:"opening_balance"`
	AccrualPerMonth   string  `json:"accrual_per_month"`
	MaxCarryover      string  `json:"max_carryover"`
	CarryoverExpireOn *string `json:"carryover_expire_on"`
}

func (r *CreateAccountRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	switch TypeCode(r.LeaveTypeCode) {
	case TypeRTT, TypeVacation:
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_code",
			Message: "leave_type_code must be RTT or VAC",
		})
	}

	if r.CarryoverExpireOn != nil {
		if _, ok := validator.IsValidDate(*r.CarryoverExpireOn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "carryover_expire_on",
				Message: "carryover_expire_on must be formatted as YYYY-MM-DD",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AccountResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	LeaveTypeCode     string  `json:"leave_type_code"`
	OpeningBalance    string  `json:"opening_balance"`
	AccrualPerMonth   string  `json:"accrual_per_month"`
	MaxCarryover      string  `json:"max_carryover"`
	CarryoverExpireOn *string `json:"carryover_expire_on,omitempty"`
}

type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

type LedgerEntryResponse struct {
	ID                 string  `json:"id"`
	AccountID          string  `json:"account_id"`
	EntryDate          string  `json:"entry_date"`
	Kind               string  `json:"kind"`
	Amount             string  `json:"amount"`
	ReferenceAbsenceID *string `json:"reference_absence_id,omitempty"`
	Note               string  `json:"note,omitempty"`
}

type ListLedgerEntriesResponse struct {
	TotalCount int                   `json:"total_count"`
	Entries    []LedgerEntryResponse `json:"entries"`
}
