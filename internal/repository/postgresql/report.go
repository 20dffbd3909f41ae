package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/presencehq/presence-backend-go/internal/domain/report"
	"github.com/presencehq/presence-backend-go/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

// Create implements report.Repository.
// compliance_reports.rule_key carries a unique index; concurrent
// duplicate attempts collapse there rather than in application code.
func (r *reportRepository) Create(ctx context.Context, rep report.ComplianceReport) (report.ComplianceReport, error) {
	q := GetQuerier(ctx, r.db)

	if rep.ID == "" {
		rep.ID = uuid.New().String()
	}

	query := `
		INSERT INTO compliance_reports (
			id, author_id, target_id, subject_id, type, severity, rule_key, title, body
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		rep.ID,
		rep.AuthorID,
		rep.TargetID,
		rep.SubjectID,
		rep.Type,
		rep.Severity,
		rep.RuleKey,
		rep.Title,
		rep.Body,
	).Scan(&rep.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return report.ComplianceReport{}, report.ErrDuplicateRuleKey
		}
		return report.ComplianceReport{}, fmt.Errorf("failed to create compliance report: %w", err)
	}

	return rep, nil
}

// ExistsByRuleKey implements report.Repository.
func (r *reportRepository) ExistsByRuleKey(ctx context.Context, ruleKey string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM compliance_reports
			WHERE rule_key = $1
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, ruleKey).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check rule key: %w", err)
	}

	return exists, nil
}

// ListByTarget implements report.Repository.
func (r *reportRepository) ListByTarget(ctx context.Context, targetID string) ([]report.ComplianceReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, author_id, target_id, subject_id, type, severity, rule_key, title, body, created_at
		FROM compliance_reports
		WHERE target_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query compliance reports: %w", err)
	}
	defer rows.Close()

	var reports []report.ComplianceReport
	for rows.Next() {
		var rep report.ComplianceReport
		err := rows.Scan(
			&rep.ID, &rep.AuthorID, &rep.TargetID, &rep.SubjectID, &rep.Type,
			&rep.Severity, &rep.RuleKey, &rep.Title, &rep.Body, &rep.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan compliance report: %w", err)
		}
		reports = append(reports, rep)
	}

	return reports, nil
}

func NewReportRepository(db *database.DB) report.Repository {
	return &reportRepository{db: db}
}
