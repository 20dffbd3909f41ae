package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

// AccountRepository defines data access for leave accounts.
type AccountRepository interface {
	// Create inserts an account. Returns ErrAccountExists when the
	// (user, type code) pair is taken.
	Create(ctx context.Context, a Account) (Account, error)

	// GetByID retrieves an account by id
	GetByID(ctx context.Context, id string) (Account, error)

	// GetByUserAndType retrieves the account for (user, type code)
	GetByUserAndType(ctx context.Context, userID string, code TypeCode) (Account, error)

	// ListByUser returns all accounts of a user
	ListByUser(ctx context.Context, userID string) ([]Account, error)
}

// LedgerRepository defines data access for ledger entries.
type LedgerRepository interface {
	// Create inserts an entry. Returns ErrDuplicateAbsenceRef when
	// another entry already references the same absence.
	Create(ctx context.Context, e LedgerEntry) (LedgerEntry, error)

	// Update rewrites an entry in place (used by the idempotent debit)
	Update(ctx context.Context, e LedgerEntry) error

	// GetByAbsenceRef returns the entry referencing an absence, or
	// ErrEntryNotFound.
	GetByAbsenceRef(ctx context.Context, absenceID string) (LedgerEntry, error)

	// DeleteByAbsenceRef removes every entry referencing an absence
	DeleteByAbsenceRef(ctx context.Context, absenceID string) error

	// ListByAccount returns an account's entries ordered by entry date
	ListByAccount(ctx context.Context, accountID string) ([]LedgerEntry, error)

	// SumByAccount returns the signed sum of all entry amounts
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}
