package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// TypeCode identifies a leave account kind.
type TypeCode string

const (
	TypeRTT      TypeCode = "RTT"
	TypeVacation TypeCode = "VAC"
)

// Account holds one leave balance for one user. One account per
// (user, type code); creation fails if one already exists.
type Account struct {
	ID                string
	UserID            string
	LeaveTypeCode     TypeCode
	OpeningBalance    decimal.Decimal
	AccrualPerMonth   decimal.Decimal
	MaxCarryover      decimal.Decimal
	CarryoverExpireOn *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type EntryKind string

const (
	EntryAccrual         EntryKind = "ACCRUAL"
	EntryDebit           EntryKind = "DEBIT"
	EntryAdjustment      EntryKind = "ADJUSTMENT"
	EntryCarryoverExpire EntryKind = "CARRYOVER_EXPIRE"
)

// LedgerEntry is one signed movement against an account. The ledger is
// append-only except for the per-absence debit, which updates in place
// to stay idempotent. Invariant: balance = opening + sum(amount).
type LedgerEntry struct {
	ID                 string
	AccountID          string
	EntryDate          time.Time
	Kind               EntryKind
	Amount             decimal.Decimal
	ReferenceAbsenceID *string
	Note               string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
