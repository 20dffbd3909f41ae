package leave

import (
	"context"

	"github.com/presencehq/presence-backend-go/internal/domain/absence"
	"github.com/shopspring/decimal"
)

// LedgerService keeps leave balances consistent with absence approvals.
type LedgerService interface {
	// CreateAccount opens a leave account; fails if one already exists
	// for the (user, type code) pair.
	CreateAccount(ctx context.Context, req CreateAccountRequest) (AccountResponse, error)

	// EnsureDebitForApprovedAbsence makes exactly one debit entry exist
	// for an APPROVED absence, computing units from its day rows.
	// Unmapped categories are silent skips; a missing account is an
	// error. Safe to re-run.
	EnsureDebitForApprovedAbsence(ctx context.Context, a absence.Absence) error

	// RemoveDebitForAbsence deletes every entry referencing the absence
	RemoveDebitForAbsence(ctx context.Context, absenceID string) error

	// CurrentBalance returns opening balance + sum of entry amounts
	CurrentBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// ListEntries returns an account's ledger entries
	ListEntries(ctx context.Context, accountID string) (ListLedgerEntriesResponse, error)
}
