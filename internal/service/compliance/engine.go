package compliance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/presencehq/presence-backend-go/internal/domain/punch"
	"github.com/presencehq/presence-backend-go/internal/domain/report"
	"github.com/presencehq/presence-backend-go/internal/domain/schedule"
	"github.com/presencehq/presence-backend-go/internal/domain/team"
	"github.com/presencehq/presence-backend-go/internal/domain/user"
	scheduleService "github.com/presencehq/presence-backend-go/internal/service/schedule"
)

const (
	// LateArrivalGrace is how far past the expected start a first
	// clock-in may land before it is reported.
	LateArrivalGrace = 5 * time.Minute

	// EarlyLeaveGrace shields departures shortly before the expected
	// end from overwork evaluation.
	EarlyLeaveGrace = 10 * time.Minute

	// OverworkThreshold is the excess over expected minutes that
	// triggers an overwork report.
	OverworkThreshold = 30 * time.Minute
)

// Engine evaluates attendance rules for each new punch and emits
// deduplicated compliance reports. "Nothing to evaluate" conditions are
// silent; a missing system identity or subject user is not.
type Engine struct {
	users   user.Directory
	teams   team.Directory
	slots   schedule.SlotStore
	reports report.Repository
}

func NewEngine(users user.Directory, teams team.Directory, slots schedule.SlotStore, reports report.Repository) *Engine {
	return &Engine{
		users:   users,
		teams:   teams,
		slots:   slots,
		reports: reports,
	}
}

// Evaluate runs the rules matching the punch kind. dayPunches must be
// every punch of the user within the punch's local calendar day, oldest
// first.
func (e *Engine) Evaluate(ctx context.Context, userID string, kind punch.Kind, ts time.Time, dayPunches []punch.Punch) error {
	if userID == "" || kind == "" || ts.IsZero() || len(dayPunches) == 0 {
		return nil
	}

	switch kind {
	case punch.KindIn:
		return e.evaluateLateArrival(ctx, userID, ts, dayPunches)
	case punch.KindOut:
		return e.evaluateOverwork(ctx, userID, ts, dayPunches)
	}
	return nil
}

func (e *Engine) evaluateLateArrival(ctx context.Context, userID string, ts time.Time, dayPunches []punch.Punch) error {
	// Only the day's first IN is evaluated; re-entries never re-trigger.
	var firstIn *punch.Punch
	for i := range dayPunches {
		if dayPunches[i].Kind == punch.KindIn {
			firstIn = &dayPunches[i]
			break
		}
	}
	if firstIn == nil || !firstIn.Timestamp.Equal(ts) {
		return nil
	}

	window, err := e.resolveWindow(ctx, userID, ts)
	if err != nil {
		return err
	}
	if window.ExpectedStart == nil {
		return nil
	}

	graceLimit := window.ExpectedStart.Add(LateArrivalGrace)
	if !ts.After(graceLimit) {
		return nil
	}

	subject, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve report subject: %w", err)
	}

	recipients, severity, err := e.resolveRecipients(ctx, subject)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Late arrival: %s", subject.FullName())
	body := fmt.Sprintf(
		"%s clocked in late on %s: expected %s (grace until %s), actual %s.",
		subject.FullName(),
		ts.Format("2006-01-02"),
		window.ExpectedStart.Format("15:04"),
		graceLimit.Format("15:04"),
		ts.Format("15:04"),
	)

	return e.dispatch(ctx, report.TypeLateArrival, severity, ts, subject, recipients, title, body)
}

func (e *Engine) evaluateOverwork(ctx context.Context, userID string, ts time.Time, dayPunches []punch.Punch) error {
	// Only the day's final OUT is evaluated.
	last := dayPunches[len(dayPunches)-1]
	if !last.Timestamp.Equal(ts) {
		return nil
	}

	window, err := e.resolveWindow(ctx, userID, ts)
	if err != nil {
		return err
	}
	if window.ExpectedStart == nil && window.ExpectedEnd == nil && window.ExpectedMinutes == 0 {
		return nil
	}

	// Early departure is never penalized.
	if window.ExpectedEnd != nil && ts.Before(window.ExpectedEnd.Add(-EarlyLeaveGrace)) {
		return nil
	}

	// No expected duration means overwork cannot be judged.
	if window.ExpectedMinutes == 0 {
		return nil
	}

	worked := workedMinutes(dayPunches)
	excess := worked - window.ExpectedMinutes
	if excess <= int(OverworkThreshold.Minutes()) {
		return nil
	}

	subject, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve report subject: %w", err)
	}

	recipients, _, err := e.resolveRecipients(ctx, subject)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Overwork: %s", subject.FullName())
	body := fmt.Sprintf(
		"%s worked %s on %s, expected %s (excess %s).",
		subject.FullName(),
		formatMinutes(worked),
		ts.Format("2006-01-02"),
		formatMinutes(window.ExpectedMinutes),
		formatMinutes(excess),
	)

	return e.dispatch(ctx, report.TypeOverwork, report.SeverityWarn, ts, subject, recipients, title, body)
}

func (e *Engine) resolveWindow(ctx context.Context, userID string, ts time.Time) (schedule.Window, error) {
	slots, err := e.slots.SlotsForUser(ctx, userID)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("failed to load schedule slots: %w", err)
	}
	return scheduleService.ResolveWindow(ts, slots), nil
}

// resolveRecipients picks who is notified about the subject's anomaly.
// A manager's anomalies go to all admins at WARN; everyone else's go to
// the managers of their teams at INFO.
func (e *Engine) resolveRecipients(ctx context.Context, subject user.User) ([]user.User, report.Severity, error) {
	if subject.IsManager() {
		admins, err := e.users.ListByRole(ctx, user.RoleAdmin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to list admins: %w", err)
		}
		return admins, report.SeverityWarn, nil
	}

	teams, err := e.teams.TeamsOfUser(ctx, subject.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list subject teams: %w", err)
	}

	seen := make(map[string]bool)
	var recipients []user.User
	for _, t := range teams {
		members, err := e.teams.UsersOfTeam(ctx, t.ID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to list team members: %w", err)
		}
		for _, m := range members {
			if m.IsManager() && !seen[m.ID] {
				seen[m.ID] = true
				recipients = append(recipients, m)
			}
		}
	}
	return recipients, report.SeverityInfo, nil
}

// dispatch creates one report per recipient, skipping rule keys that
// already exist. The rule_key unique index is the backstop for races
// between concurrent evaluations.
func (e *Engine) dispatch(ctx context.Context, t report.Type, severity report.Severity, date time.Time, subject user.User, recipients []user.User, title, body string) error {
	if len(recipients) == 0 {
		return nil
	}

	system, err := e.users.SystemUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve system identity: %w", err)
	}

	for _, recipient := range recipients {
		key := report.RuleKey(t, date, subject.ID, recipient.ID)

		exists, err := e.reports.ExistsByRuleKey(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to check rule key %q: %w", key, err)
		}
		if exists {
			continue
		}

		_, err = e.reports.Create(ctx, report.ComplianceReport{
			AuthorID:  system.ID,
			TargetID:  recipient.ID,
			SubjectID: subject.ID,
			Type:      t,
			Severity:  severity,
			RuleKey:   key,
			Title:     title,
			Body:      body,
			CreatedAt: time.Now(),
		})
		if errors.Is(err, report.ErrDuplicateRuleKey) {
			// Lost a race to a concurrent evaluation; already reported.
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create report %q: %w", key, err)
		}
	}
	return nil
}

// workedMinutes pairs each IN with the next OUT after it and sums the
// closed pairs. An open IN contributes nothing; a leading OUT is
// ignored.
func workedMinutes(dayPunches []punch.Punch) int {
	total := 0
	var openIn *time.Time
	for i := range dayPunches {
		p := dayPunches[i]
		switch p.Kind {
		case punch.KindIn:
			if openIn == nil {
				openIn = &dayPunches[i].Timestamp
			}
		case punch.KindOut:
			if openIn != nil && p.Timestamp.After(*openIn) {
				total += int(p.Timestamp.Sub(*openIn).Minutes())
				openIn = nil
			}
		}
	}
	return total
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%dh%02d", m/60, m%60)
}
