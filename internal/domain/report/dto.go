package report

type ReportResponse struct {
	ID        string `json:"id"`
	AuthorID  string `json:"author_id"`
	TargetID  string `json:"target_id"`
	SubjectID string `json:"subject_id"`
	Type      string `json:"type"`
	Severity  string `json:"severity"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

type ListReportsResponse struct {
	TotalCount int              `json:"total_count"`
	Reports    []ReportResponse `json:"reports"`
}
