package report

import (
	"context"
	"fmt"
	"time"

	"github.com/presencehq/presence-backend-go/internal/domain/report"
)

type ReportServiceImpl struct {
	reports report.Repository
}

func NewReportService(reports report.Repository) report.Service {
	return &ReportServiceImpl{reports: reports}
}

// ListReportsForRecipient implements report.Service.
func (s *ReportServiceImpl) ListReportsForRecipient(ctx context.Context, recipientID string) (report.ListReportsResponse, error) {
	found, err := s.reports.ListByTarget(ctx, recipientID)
	if err != nil {
		return report.ListReportsResponse{}, fmt.Errorf("failed to list reports: %w", err)
	}

	responses := make([]report.ReportResponse, 0, len(found))
	for _, r := range found {
		responses = append(responses, report.ReportResponse{
			ID:        r.ID,
			AuthorID:  r.AuthorID,
			TargetID:  r.TargetID,
			SubjectID: r.SubjectID,
			Type:      string(r.Type),
			Severity:  string(r.Severity),
			Title:     r.Title,
			Body:      r.Body,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}

	return report.ListReportsResponse{
		TotalCount: len(responses),
		Reports:    responses,
	}, nil
}
