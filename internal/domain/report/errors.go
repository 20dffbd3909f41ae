package report

import "errors"

// Compliance report errors
var (
	ErrReportNotFound = errors.New("compliance report not found")

	// ErrDuplicateRuleKey surfaces the storage-level uniqueness
	// constraint on rule_key. The engine treats it as "already
	// reported", not a failure.
	ErrDuplicateRuleKey = errors.New("a report with this rule key already exists")
)
