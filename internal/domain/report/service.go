package report

import "context"

// Service exposes the read side of compliance reports. Writing is the
// rule engine's job; nothing else creates reports.
type Service interface {
	// ListReportsForRecipient returns the reports addressed to a user,
	// newest first.
	ListReportsForRecipient(ctx context.Context, recipientID string) (ListReportsResponse, error)
}
