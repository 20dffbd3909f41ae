package report

import (
	"fmt"
	"time"
)

// Type classifies a compliance report.
type Type string

const (
	TypeLateArrival Type = "LATE_ARRIVAL"
	TypeOverwork    Type = "OVERWORK"
)

type Severity string

const (
	SeverityInfo Severity = "INFO"
	SeverityWarn Severity = "WARN"
)

// ComplianceReport is an immutable anomaly notice produced by the rule
// engine. At most one report exists per RuleKey; the backing store
// enforces this with a unique index.
type ComplianceReport struct {
	ID        string
	AuthorID  string // system identity
	TargetID  string // recipient
	SubjectID string // employee being evaluated
	Type      Type
	Severity  Severity
	RuleKey   string
	Title     string
	Body      string
	CreatedAt time.Time
}

// RuleKey builds the dedup key for (rule type, date, subject, recipient).
func RuleKey(t Type, date time.Time, subjectID, recipientID string) string {
	return fmt.Sprintf("%s:%s:%s->%s", t, date.Format("2006-01-02"), subjectID, recipientID)
}
