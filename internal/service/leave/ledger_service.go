package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/presencehq/presence-backend-go/internal/domain/absence"
	"github.com/presencehq/presence-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// categoryToLeaveType maps absence categories to ledger type codes.
// Unmapped categories (SICK, PERSONAL, OTHER) never touch the ledger.
var categoryToLeaveType = map[absence.Category]leave.TypeCode{
	absence.CategoryRTT:      leave.TypeRTT,
	absence.CategoryVacation: leave.TypeVacation,
}

type LedgerServiceImpl struct {
	accounts leave.AccountRepository
	entries  leave.LedgerRepository
	absences absence.Repository
}

func NewLedgerService(accounts leave.AccountRepository, entries leave.LedgerRepository, absences absence.Repository) leave.LedgerService {
	return &LedgerServiceImpl{
		accounts: accounts,
		entries:  entries,
		absences: absences,
	}
}

// CreateAccount implements leave.LedgerService.
func (s *LedgerServiceImpl) CreateAccount(ctx context.Context, req leave.CreateAccountRequest) (leave.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.AccountResponse{}, err
	}

	opening, err := parseDecimal(req.OpeningBalance)
	if err != nil {
		return leave.AccountResponse{}, fmt.Errorf("invalid opening_balance: %w", err)
	}
	accrual, err := parseDecimal(req.AccrualPerMonth)
	if err != nil {
		return leave.AccountResponse{}, fmt.Errorf("invalid accrual_per_month: %w", err)
	}
	carryover, err := parseDecimal(req.MaxCarryover)
	if err != nil {
		return leave.AccountResponse{}, fmt.Errorf("invalid max_carryover: %w", err)
	}

	account := leave.Account{
		UserID:          req.UserID,
		LeaveTypeCode:   leave.TypeCode(req.LeaveTypeCode),
		OpeningBalance:  opening,
		AccrualPerMonth: accrual,
		MaxCarryover:    carryover,
	}
	if req.CarryoverExpireOn != nil {
		expire, _ := time.Parse("2006-01-02", *req.CarryoverExpireOn)
		account.CarryoverExpireOn = &expire
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		if errors.Is(err, leave.ErrAccountExists) {
			return leave.AccountResponse{}, leave.ErrAccountExists
		}
		return leave.AccountResponse{}, fmt.Errorf("failed to create leave account: %w", err)
	}

	return mapAccountToResponse(created), nil
}

// EnsureDebitForApprovedAbsence implements leave.LedgerService.
// Idempotent per absence id: the existing entry is updated in place when
// one already references the absence.
func (s *LedgerServiceImpl) EnsureDebitForApprovedAbsence(ctx context.Context, a absence.Absence) error {
	if a.Status != absence.StatusApproved {
		return nil
	}

	code, ok := categoryToLeaveType[a.Category]
	if !ok {
		return nil
	}

	account, err := s.accounts.GetByUserAndType(ctx, a.UserID, code)
	if err != nil {
		if errors.Is(err, leave.ErrAccountNotFound) {
			return fmt.Errorf("no %s leave account for user %s: %w", code, a.UserID, leave.ErrAccountNotFound)
		}
		return fmt.Errorf("failed to resolve leave account: %w", err)
	}

	days, err := s.absences.GetDays(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("failed to load absence days: %w", err)
	}

	units := debitUnits(days)
	if units.IsZero() {
		// Weekend-only (or empty) absences consume nothing; drop any
		// stale entry so re-approval after a date change stays exact.
		if err := s.entries.DeleteByAbsenceRef(ctx, a.ID); err != nil {
			return fmt.Errorf("failed to clear zero-unit debit: %w", err)
		}
		return nil
	}

	note := fmt.Sprintf("Auto debit for absence #%s", a.ID)
	amount := units.Neg()

	existing, err := s.entries.GetByAbsenceRef(ctx, a.ID)
	switch {
	case err == nil:
		existing.AccountID = account.ID
		existing.Kind = leave.EntryDebit
		existing.Amount = amount
		existing.Note = note
		if err := s.entries.Update(ctx, existing); err != nil {
			return fmt.Errorf("failed to update debit entry: %w", err)
		}
		return nil
	case errors.Is(err, leave.ErrEntryNotFound):
		absenceID := a.ID
		_, err := s.entries.Create(ctx, leave.LedgerEntry{
			AccountID:          account.ID,
			EntryDate:          a.StartDate,
			Kind:               leave.EntryDebit,
			Amount:             amount,
			ReferenceAbsenceID: &absenceID,
			Note:               note,
		})
		if errors.Is(err, leave.ErrDuplicateAbsenceRef) {
			// Concurrent ensure already inserted the debit.
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to create debit entry: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("failed to look up debit entry: %w", err)
	}
}

// RemoveDebitForAbsence implements leave.LedgerService.
func (s *LedgerServiceImpl) RemoveDebitForAbsence(ctx context.Context, absenceID string) error {
	if err := s.entries.DeleteByAbsenceRef(ctx, absenceID); err != nil {
		return fmt.Errorf("failed to remove debit entries: %w", err)
	}
	return nil
}

// CurrentBalance implements leave.LedgerService.
func (s *LedgerServiceImpl) CurrentBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, leave.ErrAccountNotFound) {
			return decimal.Zero, leave.ErrAccountNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to get leave account: %w", err)
	}

	sum, err := s.entries.SumByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	return account.OpeningBalance.Add(sum), nil
}

// ListEntries implements leave.LedgerService.
func (s *LedgerServiceImpl) ListEntries(ctx context.Context, accountID string) (leave.ListLedgerEntriesResponse, error) {
	entries, err := s.entries.ListByAccount(ctx, accountID)
	if err != nil {
		return leave.ListLedgerEntriesResponse{}, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	responses := make([]leave.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, leave.LedgerEntryResponse{
			ID:                 e.ID,
			AccountID:          e.AccountID,
			EntryDate:          e.EntryDate.Format("2006-01-02"),
			Kind:               string(e.Kind),
			Amount:             e.Amount.String(),
			ReferenceAbsenceID: e.ReferenceAbsenceID,
			Note:               e.Note,
		})
	}

	return leave.ListLedgerEntriesResponse{
		TotalCount: len(responses),
		Entries:    responses,
	}, nil
}

var (
	fullDayUnits = decimal.NewFromInt(1)
	halfDayUnits = decimal.NewFromFloat(0.5)
)

// debitUnits sums the leave units of an absence's days. Weekend days are
// excluded; the holiday hook is a stub until a calendar source exists.
func debitUnits(days []absence.Day) decimal.Decimal {
	units := decimal.Zero
	for _, d := range days {
		if isWeekend(d.Date) || isHoliday(d.Date) {
			continue
		}
		switch d.Period {
		case absence.DayPeriodFullDay:
			units = units.Add(fullDayUnits)
		case absence.DayPeriodAM, absence.DayPeriodPM:
			units = units.Add(halfDayUnits)
		}
	}
	return units
}

func isWeekend(date time.Time) bool {
	return date.Weekday() == time.Saturday || date.Weekday() == time.Sunday
}

// isHoliday is a hook for a public-holiday calendar; none is wired yet.
func isHoliday(date time.Time) bool {
	return false
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func mapAccountToResponse(a leave.Account) leave.AccountResponse {
	resp := leave.AccountResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		LeaveTypeCode:   string(a.LeaveTypeCode),
		OpeningBalance:  a.OpeningBalance.String(),
		AccrualPerMonth: a.AccrualPerMonth.String(),
		MaxCarryover:    a.MaxCarryover.String(),
	}
	if a.CarryoverExpireOn != nil {
		formatted := a.CarryoverExpireOn.Format("2006-01-02")
		resp.CarryoverExpireOn = &formatted
	}
	return resp
}
