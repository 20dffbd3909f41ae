package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/presencehq/presence-backend-go/internal/domain/absence"
	"github.com/presencehq/presence-backend-go/internal/pkg/database"
)

type absenceRepository struct {
	db *database.DB
}

// Create implements absence.Repository.
func (r *absenceRepository) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO absences (
			user_id, start_date, end_date, category, status, reason, supporting_document_url
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.UserID,
		a.StartDate,
		a.EndDate,
		a.Category,
		a.Status,
		a.Reason,
		a.SupportingDocumentURL,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return absence.Absence{}, fmt.Errorf("failed to create absence: %w", err)
	}

	return a, nil
}

// GetByID implements absence.Repository.
func (r *absenceRepository) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, start_date, end_date, category, status,
			   approved_by, approved_at, reason, supporting_document_url,
			   created_at, updated_at
		FROM absences
		WHERE id = $1
	`

	var a absence.Absence
	err := q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.StartDate, &a.EndDate, &a.Category, &a.Status,
		&a.ApprovedBy, &a.ApprovedAt, &a.Reason, &a.SupportingDocumentURL,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.Absence{}, absence.ErrAbsenceNotFound
		}
		return absence.Absence{}, fmt.Errorf("failed to get absence: %w", err)
	}

	return a, nil
}

// ListByUser implements absence.Repository.
func (r *absenceRepository) ListByUser(ctx context.Context, userID string) ([]absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, start_date, end_date, category, status,
			   approved_by, approved_at, reason, supporting_document_url,
			   created_at, updated_at
		FROM absences
		WHERE user_id = $1
		ORDER BY start_date DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}
	defer rows.Close()

	var absences []absence.Absence
	for rows.Next() {
		var a absence.Absence
		err := rows.Scan(
			&a.ID, &a.UserID, &a.StartDate, &a.EndDate, &a.Category, &a.Status,
			&a.ApprovedBy, &a.ApprovedAt, &a.Reason, &a.SupportingDocumentURL,
			&a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		absences = append(absences, a)
	}

	return absences, nil
}

// Update implements absence.Repository.
func (r *absenceRepository) Update(ctx context.Context, a absence.Absence) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absences
		SET start_date = $1,
			end_date = $2,
			category = $3,
			status = $4,
			approved_by = $5,
			approved_at = $6,
			reason = $7,
			supporting_document_url = $8,
			updated_at = NOW()
		WHERE id = $9
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		a.StartDate,
		a.EndDate,
		a.Category,
		a.Status,
		a.ApprovedBy,
		a.ApprovedAt,
		a.Reason,
		a.SupportingDocumentURL,
		a.ID,
	).Scan(&updatedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.ErrAbsenceNotFound
		}
		return fmt.Errorf("failed to update absence: %w", err)
	}

	return nil
}

// Delete implements absence.Repository.
func (r *absenceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	// absence_days rows go with the parent via ON DELETE CASCADE.
	query := `DELETE FROM absences WHERE id = $1`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete absence: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return absence.ErrAbsenceNotFound
	}

	return nil
}

// GetDays implements absence.Repository.
func (r *absenceRepository) GetDays(ctx context.Context, absenceID string) ([]absence.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT absence_id, date, period, start_time, end_time
		FROM absence_days
		WHERE absence_id = $1
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, absenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query absence days: %w", err)
	}
	defer rows.Close()

	var days []absence.Day
	for rows.Next() {
		var d absence.Day
		if err := rows.Scan(&d.AbsenceID, &d.Date, &d.Period, &d.StartTime, &d.EndTime); err != nil {
			return nil, fmt.Errorf("failed to scan absence day: %w", err)
		}
		days = append(days, d)
	}

	return days, nil
}

// ReplaceDays implements absence.Repository.
// Days are regenerated wholesale whenever the parent's range or period
// map changes; the swap is transactional so readers never observe a
// half-replaced set.
func (r *absenceRepository) ReplaceDays(ctx context.Context, absenceID string, days []absence.Day) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM absence_days WHERE absence_id = $1`, absenceID); err != nil {
			return fmt.Errorf("failed to clear absence days: %w", err)
		}

		insert := `
			INSERT INTO absence_days (absence_id, date, period, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5)
		`
		for _, d := range days {
			if _, err := tx.Exec(ctx, insert, absenceID, d.Date, d.Period, d.StartTime, d.EndTime); err != nil {
				return fmt.Errorf("failed to insert absence day: %w", err)
			}
		}

		return nil
	})
}

func NewAbsenceRepository(db *database.DB) absence.Repository {
	return &absenceRepository{db: db}
}
