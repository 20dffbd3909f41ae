package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/presencehq/presence-backend-go/internal/domain/leave"
	"github.com/presencehq/presence-backend-go/internal/pkg/database"
)

type leaveAccountRepository struct {
	db *database.DB
}

// Create implements leave.AccountRepository.
func (r *leaveAccountRepository) Create(ctx context.Context, a leave.Account) (leave.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_accounts (
			user_id, leave_type_code, opening_balance, accrual_per_month,
			max_carryover, carryover_expire_on
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.UserID,
		a.LeaveTypeCode,
		a.OpeningBalance,
		a.AccrualPerMonth,
		a.MaxCarryover,
		a.CarryoverExpireOn,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return leave.Account{}, leave.ErrAccountExists
		}
		return leave.Account{}, fmt.Errorf("failed to create leave account: %w", err)
	}

	return a, nil
}

// GetByID implements leave.AccountRepository.
func (r *leaveAccountRepository) GetByID(ctx context.Context, id string) (leave.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, leave_type_code, opening_balance, accrual_per_month,
			   max_carryover, carryover_expire_on, created_at, updated_at
		FROM leave_accounts
		WHERE id = $1
	`

	return r.scanAccountRow(q.QueryRow(ctx, query, id))
}

// GetByUserAndType implements leave.AccountRepository.
func (r *leaveAccountRepository) GetByUserAndType(ctx context.Context, userID string, code leave.TypeCode) (leave.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, leave_type_code, opening_balance, accrual_per_month,
			   max_carryover, carryover_expire_on, created_at, updated_at
		FROM leave_accounts
		WHERE user_id = $1 AND leave_type_code = $2
	`

	return r.scanAccountRow(q.QueryRow(ctx, query, userID, code))
}

// ListByUser implements leave.AccountRepository.
func (r *leaveAccountRepository) ListByUser(ctx context.Context, userID string) ([]leave.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, leave_type_code, opening_balance, accrual_per_month,
			   max_carryover, carryover_expire_on, created_at, updated_at
		FROM leave_accounts
		WHERE user_id = $1
		ORDER BY leave_type_code
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave accounts: %w", err)
	}
	defer rows.Close()

	var accounts []leave.Account
	for rows.Next() {
		var a leave.Account
		err := rows.Scan(
			&a.ID, &a.UserID, &a.LeaveTypeCode, &a.OpeningBalance, &a.AccrualPerMonth,
			&a.MaxCarryover, &a.CarryoverExpireOn, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave account: %w", err)
		}
		accounts = append(accounts, a)
	}

	return accounts, nil
}

func (r *leaveAccountRepository) scanAccountRow(row pgx.Row) (leave.Account, error) {
	var a leave.Account
	err := row.Scan(
		&a.ID, &a.UserID, &a.LeaveTypeCode, &a.OpeningBalance, &a.AccrualPerMonth,
		&a.MaxCarryover, &a.CarryoverExpireOn, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Account{}, leave.ErrAccountNotFound
		}
		return leave.Account{}, fmt.Errorf("failed to get leave account: %w", err)
	}
	return a, nil
}

func NewLeaveAccountRepository(db *database.DB) leave.AccountRepository {
	return &leaveAccountRepository{db: db}
}
