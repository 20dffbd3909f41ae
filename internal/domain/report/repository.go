package report

import "context"

// Repository defines data access for compliance reports.
type Repository interface {
	// Create inserts a report. Returns ErrDuplicateRuleKey when a
	// report with the same rule key already exists; concurrent
	// duplicate attempts collapse on the unique index.
	Create(ctx context.Context, r ComplianceReport) (ComplianceReport, error)

	// ExistsByRuleKey reports whether a rule key is already taken
	ExistsByRuleKey(ctx context.Context, ruleKey string) (bool, error)

	// ListByTarget returns reports addressed to a recipient, newest first
	ListByTarget(ctx context.Context, targetID string) ([]ComplianceReport, error)
}
