package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/presencehq/presence-backend-go/internal/domain/leave"
	"github.com/presencehq/presence-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type leaveLedgerRepository struct {
	db *database.DB
}

// Create implements leave.LedgerRepository.
func (r *leaveLedgerRepository) Create(ctx context.Context, e leave.LedgerEntry) (leave.LedgerEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_ledger_entries (
			account_id, entry_date, kind, amount, reference_absence_id, note
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		e.AccountID,
		e.EntryDate,
		e.Kind,
		e.Amount,
		e.ReferenceAbsenceID,
		e.Note,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return leave.LedgerEntry{}, leave.ErrDuplicateAbsenceRef
		}
		return leave.LedgerEntry{}, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return e, nil
}

// Update implements leave.LedgerRepository.
func (r *leaveLedgerRepository) Update(ctx context.Context, e leave.LedgerEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_ledger_entries
		SET account_id = $1,
			entry_date = $2,
			kind = $3,
			amount = $4,
			note = $5,
			updated_at = NOW()
		WHERE id = $6
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		e.AccountID,
		e.EntryDate,
		e.Kind,
		e.Amount,
		e.Note,
		e.ID,
	).Scan(&updatedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrEntryNotFound
		}
		return fmt.Errorf("failed to update ledger entry: %w", err)
	}

	return nil
}

// GetByAbsenceRef implements leave.LedgerRepository.
func (r *leaveLedgerRepository) GetByAbsenceRef(ctx context.Context, absenceID string) (leave.LedgerEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, account_id, entry_date, kind, amount, reference_absence_id,
			   note, created_at, updated_at
		FROM leave_ledger_entries
		WHERE reference_absence_id = $1
	`

	var e leave.LedgerEntry
	err := q.QueryRow(ctx, query, absenceID).Scan(
		&e.ID, &e.AccountID, &e.EntryDate, &e.Kind, &e.Amount, &e.ReferenceAbsenceID,
		&e.Note, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LedgerEntry{}, leave.ErrEntryNotFound
		}
		return leave.LedgerEntry{}, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return e, nil
}

// DeleteByAbsenceRef implements leave.LedgerRepository.
func (r *leaveLedgerRepository) DeleteByAbsenceRef(ctx context.Context, absenceID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM leave_ledger_entries WHERE reference_absence_id = $1`

	if _, err := q.Exec(ctx, query, absenceID); err != nil {
		return fmt.Errorf("failed to delete ledger entries: %w", err)
	}

	return nil
}

// ListByAccount implements leave.LedgerRepository.
func (r *leaveLedgerRepository) ListByAccount(ctx context.Context, accountID string) ([]leave.LedgerEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, account_id, entry_date, kind, amount, reference_absence_id,
			   note, created_at, updated_at
		FROM leave_ledger_entries
		WHERE account_id = $1
		ORDER BY entry_date, id
	`

	rows, err := q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []leave.LedgerEntry
	for rows.Next() {
		var e leave.LedgerEntry
		err := rows.Scan(
			&e.ID, &e.AccountID, &e.EntryDate, &e.Kind, &e.Amount, &e.ReferenceAbsenceID,
			&e.Note, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// SumByAccount implements leave.LedgerRepository.
func (r *leaveLedgerRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM leave_ledger_entries
		WHERE account_id = $1
	`

	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, accountID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	return sum, nil
}

func NewLeaveLedgerRepository(db *database.DB) leave.LedgerRepository {
	return &leaveLedgerRepository{db: db}
}
