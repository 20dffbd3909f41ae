package leave

import "errors"

// Leave ledger errors
var (
	ErrAccountNotFound = errors.New("leave account not found")
	ErrAccountExists   = errors.New("a leave account of this type already exists for the user")
	ErrEntryNotFound   = errors.New("ledger entry not found")

	// ErrDuplicateAbsenceRef surfaces the storage-level uniqueness of
	// (account, reference absence); concurrent debit attempts for one
	// absence collapse on it.
	ErrDuplicateAbsenceRef = errors.New("a ledger entry already references this absence")
)
