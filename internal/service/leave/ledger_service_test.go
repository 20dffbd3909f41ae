package leave

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/presencehq/presence-backend-go/internal/domain/absence"
	"github.com/presencehq/presence-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountRepo struct {
	accounts map[string]leave.Account
	nextID   int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]leave.Account)}
}

func (f *fakeAccountRepo) Create(ctx context.Context, a leave.Account) (leave.Account, error) {
	for _, existing := range f.accounts {
		if existing.UserID == a.UserID && existing.LeaveTypeCode == a.LeaveTypeCode {
			return leave.Account{}, leave.ErrAccountExists
		}
	}
	f.nextID++
	a.ID = fmt.Sprintf("acct-%d", f.nextID)
	f.accounts[a.ID] = a
	return a, nil
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (leave.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return leave.Account{}, leave.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeAccountRepo) GetByUserAndType(ctx context.Context, userID string, code leave.TypeCode) (leave.Account, error) {
	for _, a := range f.accounts {
		if a.UserID == userID && a.LeaveTypeCode == code {
			return a, nil
		}
	}
	return leave.Account{}, leave.ErrAccountNotFound
}

func (f *fakeAccountRepo) ListByUser(ctx context.Context, userID string) ([]leave.Account, error) {
	var found []leave.Account
	for _, a := range f.accounts {
		if a.UserID == userID {
			found = append(found, a)
		}
	}
	return found, nil
}

type fakeLedgerRepo struct {
	entries []leave.LedgerEntry
	nextID  int
}

func (f *fakeLedgerRepo) Create(ctx context.Context, e leave.LedgerEntry) (leave.LedgerEntry, error) {
	if e.ReferenceAbsenceID != nil {
		for _, existing := range f.entries {
			if existing.ReferenceAbsenceID != nil && *existing.ReferenceAbsenceID == *e.ReferenceAbsenceID {
				return leave.LedgerEntry{}, leave.ErrDuplicateAbsenceRef
			}
		}
	}
	f.nextID++
	e.ID = fmt.Sprintf("entry-%d", f.nextID)
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeLedgerRepo) Update(ctx context.Context, e leave.LedgerEntry) error {
	for i := range f.entries {
		if f.entries[i].ID == e.ID {
			f.entries[i] = e
			return nil
		}
	}
	return leave.ErrEntryNotFound
}

func (f *fakeLedgerRepo) GetByAbsenceRef(ctx context.Context, absenceID string) (leave.LedgerEntry, error) {
	for _, e := range f.entries {
		if e.ReferenceAbsenceID != nil && *e.ReferenceAbsenceID == absenceID {
			return e, nil
		}
	}
	return leave.LedgerEntry{}, leave.ErrEntryNotFound
}

func (f *fakeLedgerRepo) DeleteByAbsenceRef(ctx context.Context, absenceID string) error {
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.ReferenceAbsenceID == nil || *e.ReferenceAbsenceID != absenceID {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

func (f *fakeLedgerRepo) ListByAccount(ctx context.Context, accountID string) ([]leave.LedgerEntry, error) {
	var found []leave.LedgerEntry
	for _, e := range f.entries {
		if e.AccountID == accountID {
			found = append(found, e)
		}
	}
	return found, nil
}

func (f *fakeLedgerRepo) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range f.entries {
		if e.AccountID == accountID {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

type fakeAbsenceRepo struct {
	absences map[string]absence.Absence
	days     map[string][]absence.Day
}

func newFakeAbsenceRepo() *fakeAbsenceRepo {
	return &fakeAbsenceRepo{
		absences: make(map[string]absence.Absence),
		days:     make(map[string][]absence.Day),
	}
}

func (f *fakeAbsenceRepo) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	f.absences[a.ID] = a
	return a, nil
}

func (f *fakeAbsenceRepo) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	a, ok := f.absences[id]
	if !ok {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	return a, nil
}

func (f *fakeAbsenceRepo) ListByUser(ctx context.Context, userID string) ([]absence.Absence, error) {
	var found []absence.Absence
	for _, a := range f.absences {
		if a.UserID == userID {
			found = append(found, a)
		}
	}
	return found, nil
}

func (f *fakeAbsenceRepo) Update(ctx context.Context, a absence.Absence) error {
	f.absences[a.ID] = a
	return nil
}

func (f *fakeAbsenceRepo) Delete(ctx context.Context, id string) error {
	delete(f.absences, id)
	delete(f.days, id)
	return nil
}

func (f *fakeAbsenceRepo) GetDays(ctx context.Context, absenceID string) ([]absence.Day, error) {
	return f.days[absenceID], nil
}

func (f *fakeAbsenceRepo) ReplaceDays(ctx context.Context, absenceID string, days []absence.Day) error {
	f.days[absenceID] = days
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// approvedAbsence spans Mon 2026-01-05 through Sun 2026-01-11 with
// FULL_DAY rows, so five working days.
func approvedAbsence(id, userID string, category absence.Category) (absence.Absence, []absence.Day) {
	a := absence.Absence{
		ID:        id,
		UserID:    userID,
		StartDate: date(2026, 1, 5),
		EndDate:   date(2026, 1, 11),
		Category:  category,
		Status:    absence.StatusApproved,
	}
	var days []absence.Day
	for d := a.StartDate; !d.After(a.EndDate); d = d.AddDate(0, 0, 1) {
		days = append(days, absence.Day{AbsenceID: id, Date: d, Period: absence.DayPeriodFullDay})
	}
	return a, days
}

func newLedgerFixture() (leave.LedgerService, *fakeAccountRepo, *fakeLedgerRepo, *fakeAbsenceRepo) {
	accounts := newFakeAccountRepo()
	entries := &fakeLedgerRepo{}
	absences := newFakeAbsenceRepo()
	return NewLedgerService(accounts, entries, absences), accounts, entries, absences
}

func seedAccount(t *testing.T, accounts *fakeAccountRepo, userID string, code leave.TypeCode, opening string) leave.Account {
	t.Helper()
	openingDec, err := decimal.NewFromString(opening)
	require.NoError(t, err)
	a, err := accounts.Create(context.Background(), leave.Account{
		UserID:         userID,
		LeaveTypeCode:  code,
		OpeningBalance: openingDec,
	})
	require.NoError(t, err)
	return a
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("creates one account per user and type", func(t *testing.T) {
		svc, _, _, _ := newLedgerFixture()

		resp, err := svc.CreateAccount(ctx, leave.CreateAccountRequest{
			UserID:          "emp-1",
			LeaveTypeCode:   "VAC",
			OpeningBalance:  "25",
			AccrualPerMonth: "2.08",
			MaxCarryover:    "5",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "25", resp.OpeningBalance)
	})

	t.Run("duplicate pair conflicts", func(t *testing.T) {
		svc, _, _, _ := newLedgerFixture()
		req := leave.CreateAccountRequest{UserID: "emp-1", LeaveTypeCode: "RTT", OpeningBalance: "10"}

		_, err := svc.CreateAccount(ctx, req)
		require.NoError(t, err)

		_, err = svc.CreateAccount(ctx, req)
		require.ErrorIs(t, err, leave.ErrAccountExists)
	})

	t.Run("unknown type code is rejected", func(t *testing.T) {
		svc, _, _, _ := newLedgerFixture()

		_, err := svc.CreateAccount(ctx, leave.CreateAccountRequest{UserID: "emp-1", LeaveTypeCode: "SICK"})

		require.Error(t, err)
	})
}

func TestEnsureDebitForApprovedAbsence(t *testing.T) {
	ctx := context.Background()

	t.Run("debits working days only", func(t *testing.T) {
		svc, accounts, entries, absences := newLedgerFixture()
		account := seedAccount(t, accounts, "emp-1", leave.TypeVacation, "25")
		a, days := approvedAbsence("abs-1", "emp-1", absence.CategoryVacation)
		require.NoError(t, absences.ReplaceDays(ctx, a.ID, days))

		require.NoError(t, svc.EnsureDebitForApprovedAbsence(ctx, a))

		require.Len(t, entries.entries, 1)
		e := entries.entries[0]
		assert.Equal(t, account.ID, e.AccountID)
		assert.Equal(t, leave.EntryDebit, e.Kind)
		assert.True(t, e.Amount.Equal(decimal.NewFromInt(-5)), "amount = %s", e.Amount)
		require.NotNil(t, e.ReferenceAbsenceID)
		assert.Equal(t, "abs-1", *e.ReferenceAbsenceID)
	})

	t.Run("half days count as half units", func(t *testing.T) {
		svc, accounts, entries, absences := newLedgerFixture()
		seedAccount(t, accounts, "emp-1", leave.TypeRTT, "10")
		a := absence.Absence{
			ID:        "abs-2",
			UserID:    "emp-1",
			StartDate: date(2026, 1, 5),
			EndDate:   date(2026, 1, 6),
			Category:  absence.CategoryRTT,
			Status:    absence.StatusApproved,
		}
		days := []absence.Day{
			{AbsenceID: a.ID, Date: date(2026, 1, 5), Period: absence.DayPeriodAM},
			{AbsenceID: a.ID, Date: date(2026, 1, 6), Period: absence.DayPeriodFullDay},
		}
		require.NoError(t, absences.ReplaceDays(ctx, a.ID, days))

		require.NoError(t, svc.EnsureDebitForApprovedAbsence(ctx, a))

		require.Len(t, entries.entries, 1)
		assert.True(t, entries.entries[0].Amount.Equal(decimal.NewFromFloat(-1.5)))
	})

	t.Run("re-running keeps a single entry", func(t *testing.T) {
		svc, accounts, entries, absences := newLedgerFixture()
		seedAccount(t, accounts, "emp-1", leave.TypeVacation, "25")
		a, days := approvedAbsence("abs-3", "emp-1", absence.CategoryVacation)
		require.NoError(t, absences.ReplaceDays(ctx, a.ID, days))

		require.NoError(t, svc.EnsureDebitForApprovedAbsence(ctx, a))
		require.NoError(t, svc.EnsureDebitForApprovedAbsence(ctx, a))

		require.Len(t, entries.entries, 1)
		assert.True(t, entries.entries[0].Amount.Equal(decimal.NewFromInt(-5)))
	})

	t.Run("unmapped category never touches the ledger", func(t *testing.T) {
		svc, accounts, entries, absences := newLedgerFixture()
		seedAccount(t, accounts, "emp-1", leave.TypeVacation, "25")
		a, days := approvedAbsence("abs-4", "emp-1", absence.CategorySick)
		require.NoError(t, absences.ReplaceDays(ctx, a.ID, days))

		require.NoError(t, svc.EnsureDebitForApprovedAbsence(ctx, a))

		assert.Empty(t, entries.entries)
	})

	t.Run("non-approved absence is a no-op", func(t *testing.T) {
		svc, accounts, entries, absences := newLedgerFixture()
		seedAccount(t, accounts, "emp-1", leave.TypeVacation, "25")
		a, days := approvedAbsence("abs-5", "emp-1", absence.CategoryVacation)
		a.Status = absence.StatusPending
		require.NoError(t, absences.ReplaceDays(ctx, a.ID, days))

		require.NoError(t, svc.EnsureDebitForApprovedAbsence(ctx, a))

		assert.Empty(t, entries.entries)
	})

	t.Run("missing account is an error", func(t *testing.T) {
		svc, _, _, absences := newLedgerFixture()
		a, days := approvedAbsence("abs-6", "emp-1", absence.CategoryVacation)
		require.NoError(t, absences.ReplaceDays(ctx, a.ID, days))

		err := svc.EnsureDebitForApprovedAbsence(ctx, a)

		require.ErrorIs(t, err, leave.ErrAccountNotFound)
	})

	t.Run("weekend-only absence consumes nothing and clears stale entries", func(t *testing.T) {
		svc, accounts, entries, absences := newLedgerFixture()
		account := seedAccount(t, accounts, "emp-1", leave.TypeVacation, "25")

		// Saturday and Sunday only.
		a := absence.Absence{
			ID:        "abs-7",
			UserID:    "emp-1",
			StartDate: date(2026, 1, 10),
			EndDate:   date(2026, 1, 11),
			Category:  absence.CategoryVacation,
			Status:    absence.StatusApproved,
		}
		days := []absence.Day{
			{AbsenceID: a.ID, Date: date(2026, 1, 10), Period: absence.DayPeriodFullDay},
			{AbsenceID: a.ID, Date: date(2026, 1, 11), Period: absence.DayPeriodFullDay},
		}
		require.NoError(t, absences.ReplaceDays(ctx, a.ID, days))

		// A stale debit from before the dates were narrowed.
		absenceID := a.ID
		_, err := entries.Create(ctx, leave.LedgerEntry{
			AccountID:          account.ID,
			Kind:               leave.EntryDebit,
			Amount:             decimal.NewFromInt(-2),
			ReferenceAbsenceID: &absenceID,
		})
		require.NoError(t, err)

		require.NoError(t, svc.EnsureDebitForApprovedAbsence(ctx, a))

		assert.Empty(t, entries.entries)
	})
}

func TestRemoveDebitForAbsence(t *testing.T) {
	ctx := context.Background()

	svc, accounts, entries, absences := newLedgerFixture()
	seedAccount(t, accounts, "emp-1", leave.TypeVacation, "25")
	a, days := approvedAbsence("abs-8", "emp-1", absence.CategoryVacation)
	require.NoError(t, absences.ReplaceDays(ctx, a.ID, days))
	require.NoError(t, svc.EnsureDebitForApprovedAbsence(ctx, a))
	require.Len(t, entries.entries, 1)

	require.NoError(t, svc.RemoveDebitForAbsence(ctx, a.ID))

	assert.Empty(t, entries.entries)
}

func TestCurrentBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("balance is opening plus entry sum", func(t *testing.T) {
		svc, accounts, entries, absences := newLedgerFixture()
		account := seedAccount(t, accounts, "emp-1", leave.TypeVacation, "25")
		a, days := approvedAbsence("abs-9", "emp-1", absence.CategoryVacation)
		require.NoError(t, absences.ReplaceDays(ctx, a.ID, days))
		require.NoError(t, svc.EnsureDebitForApprovedAbsence(ctx, a))

		_, err := entries.Create(ctx, leave.LedgerEntry{
			AccountID: account.ID,
			Kind:      leave.EntryAccrual,
			Amount:    decimal.NewFromFloat(2.5),
		})
		require.NoError(t, err)

		balance, err := svc.CurrentBalance(ctx, account.ID)

		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromFloat(22.5)), "balance = %s", balance)
	})

	t.Run("unknown account fails", func(t *testing.T) {
		svc, _, _, _ := newLedgerFixture()

		_, err := svc.CurrentBalance(ctx, "missing")

		require.ErrorIs(t, err, leave.ErrAccountNotFound)
	})

	t.Run("approve then remove restores the balance", func(t *testing.T) {
		svc, accounts, _, absences := newLedgerFixture()
		account := seedAccount(t, accounts, "emp-1", leave.TypeVacation, "25")
		a, days := approvedAbsence("abs-10", "emp-1", absence.CategoryVacation)
		require.NoError(t, absences.ReplaceDays(ctx, a.ID, days))

		require.NoError(t, svc.EnsureDebitForApprovedAbsence(ctx, a))
		balance, err := svc.CurrentBalance(ctx, account.ID)
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(20)))

		require.NoError(t, svc.RemoveDebitForAbsence(ctx, a.ID))
		balance, err = svc.CurrentBalance(ctx, account.ID)
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(25)))
	})
}
