package compliance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/presencehq/presence-backend-go/internal/domain/punch"
	"github.com/presencehq/presence-backend-go/internal/domain/report"
	"github.com/presencehq/presence-backend-go/internal/domain/schedule"
	"github.com/presencehq/presence-backend-go/internal/domain/team"
	"github.com/presencehq/presence-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	users  map[string]user.User
	system *user.User
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeDirectory) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeDirectory) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	var found []user.User
	for _, u := range f.users {
		if u.HasRole(role) {
			found = append(found, u)
		}
	}
	return found, nil
}

func (f *fakeDirectory) SystemUser(ctx context.Context) (user.User, error) {
	if f.system == nil {
		return user.User{}, user.ErrSystemUserNotFound
	}
	return *f.system, nil
}

type fakeTeams struct {
	teamsOfUser map[string][]string
	members     map[string][]user.User
}

func (f *fakeTeams) TeamsOfUser(ctx context.Context, userID string) ([]team.Team, error) {
	var teams []team.Team
	for _, id := range f.teamsOfUser[userID] {
		teams = append(teams, team.Team{ID: id})
	}
	return teams, nil
}

func (f *fakeTeams) UsersOfTeam(ctx context.Context, teamID string) ([]user.User, error) {
	return f.members[teamID], nil
}

type fakeSlotStore struct {
	slots map[string][]schedule.Slot
}

func (f *fakeSlotStore) SlotsForUser(ctx context.Context, userID string) ([]schedule.Slot, error) {
	return f.slots[userID], nil
}

type fakeReportRepo struct {
	reports []report.ComplianceReport
	nextID  int
}

func (f *fakeReportRepo) Create(ctx context.Context, r report.ComplianceReport) (report.ComplianceReport, error) {
	for _, existing := range f.reports {
		if existing.RuleKey == r.RuleKey {
			return report.ComplianceReport{}, report.ErrDuplicateRuleKey
		}
	}
	f.nextID++
	r.ID = fmt.Sprintf("report-%d", f.nextID)
	f.reports = append(f.reports, r)
	return r, nil
}

func (f *fakeReportRepo) ExistsByRuleKey(ctx context.Context, ruleKey string) (bool, error) {
	for _, r := range f.reports {
		if r.RuleKey == ruleKey {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReportRepo) ListByTarget(ctx context.Context, targetID string) ([]report.ComplianceReport, error) {
	var found []report.ComplianceReport
	for _, r := range f.reports {
		if r.TargetID == targetID {
			found = append(found, r)
		}
	}
	return found, nil
}

func clockTime(hour, minute int) *time.Time {
	t := time.Date(2000, 1, 1, hour, minute, 0, 0, time.UTC)
	return &t
}

// Monday 2026-01-05 at the given clock time.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, 1, 5, hour, minute, 0, 0, time.UTC)
}

func fullDaySlots() []schedule.Slot {
	return []schedule.Slot{
		{DayOfWeek: 1, Period: schedule.PeriodAM, StartTime: clockTime(9, 0), EndTime: clockTime(12, 0)},
		{DayOfWeek: 1, Period: schedule.PeriodPM, StartTime: clockTime(13, 0), EndTime: clockTime(17, 0)},
	}
}

func newTestEngine() (*Engine, *fakeDirectory, *fakeTeams, *fakeSlotStore, *fakeReportRepo) {
	system := user.User{ID: "system", Email: user.SystemEmail}
	users := &fakeDirectory{
		users: map[string]user.User{
			"emp-1": {ID: "emp-1", FirstName: "Alice", LastName: "Martin", Roles: []user.Role{user.RoleEmployee}},
			"mgr-1": {ID: "mgr-1", FirstName: "Bob", LastName: "Durand", Roles: []user.Role{user.RoleManager}},
			"adm-1": {ID: "adm-1", FirstName: "Carol", LastName: "Petit", Roles: []user.Role{user.RoleAdmin}},
		},
		system: &system,
	}
	teams := &fakeTeams{
		teamsOfUser: map[string][]string{
			"emp-1": {"team-1"},
			"mgr-1": {"team-1"},
		},
		members: map[string][]user.User{
			"team-1": {
				users.users["emp-1"],
				users.users["mgr-1"],
			},
		},
	}
	slots := &fakeSlotStore{
		slots: map[string][]schedule.Slot{
			"emp-1": fullDaySlots(),
			"mgr-1": fullDaySlots(),
		},
	}
	reports := &fakeReportRepo{}
	return NewEngine(users, teams, slots, reports), users, teams, slots, reports
}

func TestEvaluateLateArrival(t *testing.T) {
	ctx := context.Background()

	t.Run("late first clock-in notifies team manager at INFO", func(t *testing.T) {
		engine, _, _, _, reports := newTestEngine()
		ts := mondayAt(9, 10)
		day := []punch.Punch{{ID: "p1", UserID: "emp-1", Kind: punch.KindIn, Timestamp: ts}}

		err := engine.Evaluate(ctx, "emp-1", punch.KindIn, ts, day)

		require.NoError(t, err)
		require.Len(t, reports.reports, 1)
		r := reports.reports[0]
		assert.Equal(t, "system", r.AuthorID)
		assert.Equal(t, "mgr-1", r.TargetID)
		assert.Equal(t, "emp-1", r.SubjectID)
		assert.Equal(t, report.TypeLateArrival, r.Type)
		assert.Equal(t, report.SeverityInfo, r.Severity)
		assert.Equal(t, "LATE_ARRIVAL:2026-01-05:emp-1->mgr-1", r.RuleKey)
		assert.Contains(t, r.Body, "Alice Martin")
	})

	t.Run("arrival inside the grace period is silent", func(t *testing.T) {
		engine, _, _, _, reports := newTestEngine()
		ts := mondayAt(9, 5)
		day := []punch.Punch{{ID: "p1", UserID: "emp-1", Kind: punch.KindIn, Timestamp: ts}}

		err := engine.Evaluate(ctx, "emp-1", punch.KindIn, ts, day)

		require.NoError(t, err)
		assert.Empty(t, reports.reports)
	})

	t.Run("re-entry after the first IN never re-triggers", func(t *testing.T) {
		engine, _, _, _, reports := newTestEngine()
		ts := mondayAt(13, 45)
		day := []punch.Punch{
			{ID: "p1", UserID: "emp-1", Kind: punch.KindIn, Timestamp: mondayAt(9, 0)},
			{ID: "p2", UserID: "emp-1", Kind: punch.KindOut, Timestamp: mondayAt(12, 0)},
			{ID: "p3", UserID: "emp-1", Kind: punch.KindIn, Timestamp: ts},
		}

		err := engine.Evaluate(ctx, "emp-1", punch.KindIn, ts, day)

		require.NoError(t, err)
		assert.Empty(t, reports.reports)
	})

	t.Run("no schedule means nothing to evaluate", func(t *testing.T) {
		engine, _, _, slots, reports := newTestEngine()
		delete(slots.slots, "emp-1")
		ts := mondayAt(11, 0)
		day := []punch.Punch{{ID: "p1", UserID: "emp-1", Kind: punch.KindIn, Timestamp: ts}}

		err := engine.Evaluate(ctx, "emp-1", punch.KindIn, ts, day)

		require.NoError(t, err)
		assert.Empty(t, reports.reports)
	})

	t.Run("manager subject escalates to admins at WARN", func(t *testing.T) {
		engine, _, _, _, reports := newTestEngine()
		ts := mondayAt(9, 30)
		day := []punch.Punch{{ID: "p1", UserID: "mgr-1", Kind: punch.KindIn, Timestamp: ts}}

		err := engine.Evaluate(ctx, "mgr-1", punch.KindIn, ts, day)

		require.NoError(t, err)
		require.Len(t, reports.reports, 1)
		r := reports.reports[0]
		assert.Equal(t, "adm-1", r.TargetID)
		assert.Equal(t, report.SeverityWarn, r.Severity)
	})

	t.Run("repeat evaluation is deduplicated by rule key", func(t *testing.T) {
		engine, _, _, _, reports := newTestEngine()
		ts := mondayAt(9, 10)
		day := []punch.Punch{{ID: "p1", UserID: "emp-1", Kind: punch.KindIn, Timestamp: ts}}

		require.NoError(t, engine.Evaluate(ctx, "emp-1", punch.KindIn, ts, day))
		require.NoError(t, engine.Evaluate(ctx, "emp-1", punch.KindIn, ts, day))

		assert.Len(t, reports.reports, 1)
	})

	t.Run("subject with no team produces no report", func(t *testing.T) {
		engine, _, teams, _, reports := newTestEngine()
		delete(teams.teamsOfUser, "emp-1")
		ts := mondayAt(9, 10)
		day := []punch.Punch{{ID: "p1", UserID: "emp-1", Kind: punch.KindIn, Timestamp: ts}}

		err := engine.Evaluate(ctx, "emp-1", punch.KindIn, ts, day)

		require.NoError(t, err)
		assert.Empty(t, reports.reports)
	})

	t.Run("missing system identity is an error", func(t *testing.T) {
		engine, users, _, _, reports := newTestEngine()
		users.system = nil
		ts := mondayAt(9, 10)
		day := []punch.Punch{{ID: "p1", UserID: "emp-1", Kind: punch.KindIn, Timestamp: ts}}

		err := engine.Evaluate(ctx, "emp-1", punch.KindIn, ts, day)

		require.ErrorIs(t, err, user.ErrSystemUserNotFound)
		assert.Empty(t, reports.reports)
	})
}

func TestEvaluateOverwork(t *testing.T) {
	ctx := context.Background()

	t.Run("excess beyond threshold reports WARN to manager", func(t *testing.T) {
		engine, _, _, _, reports := newTestEngine()
		ts := mondayAt(18, 15)
		day := []punch.Punch{
			{ID: "p1", UserID: "emp-1", Kind: punch.KindIn, Timestamp: mondayAt(9, 0)},
			{ID: "p2", UserID: "emp-1", Kind: punch.KindOut, Timestamp: mondayAt(12, 0)},
			{ID: "p3", UserID: "emp-1", Kind: punch.KindIn, Timestamp: mondayAt(13, 0)},
			{ID: "p4", UserID: "emp-1", Kind: punch.KindOut, Timestamp: ts},
		}

		// Worked 8h15, expected 7h00, excess 1h15.
		err := engine.Evaluate(ctx, "emp-1", punch.KindOut, ts, day)

		require.NoError(t, err)
		require.Len(t, reports.reports, 1)
		r := reports.reports[0]
		assert.Equal(t, report.TypeOverwork, r.Type)
		assert.Equal(t, report.SeverityWarn, r.Severity)
		assert.Equal(t, "mgr-1", r.TargetID)
		assert.Contains(t, r.Body, "8h15")
		assert.Contains(t, r.Body, "7h00")
	})

	t.Run("excess at or below threshold is silent", func(t *testing.T) {
		engine, _, _, _, reports := newTestEngine()
		ts := mondayAt(17, 30)
		day := []punch.Punch{
			{ID: "p1", UserID: "emp-1", Kind: punch.KindIn, Timestamp: mondayAt(9, 0)},
			{ID: "p2", UserID: "emp-1", Kind: punch.KindOut, Timestamp: mondayAt(12, 0)},
			{ID: "p3", UserID: "emp-1", Kind: punch.KindIn, Timestamp: mondayAt(13, 0)},
			{ID: "p4", UserID: "emp-1", Kind: punch.KindOut, Timestamp: ts},
		}

		err := engine.Evaluate(ctx, "emp-1", punch.KindOut, ts, day)

		require.NoError(t, err)
		assert.Empty(t, reports.reports)
	})

	t.Run("early departure is never evaluated", func(t *testing.T) {
		engine, _, _, _, reports := newTestEngine()
		ts := mondayAt(16, 45)
		day := []punch.Punch{
			{ID: "p1", UserID: "emp-1", Kind: punch.KindIn, Timestamp: mondayAt(6, 0)},
			{ID: "p2", UserID: "emp-1", Kind: punch.KindOut, Timestamp: ts},
		}

		err := engine.Evaluate(ctx, "emp-1", punch.KindOut, ts, day)

		require.NoError(t, err)
		assert.Empty(t, reports.reports)
	})

	t.Run("only the final OUT of the day is evaluated", func(t *testing.T) {
		engine, _, _, _, reports := newTestEngine()
		midday := mondayAt(12, 0)
		day := []punch.Punch{
			{ID: "p1", UserID: "emp-1", Kind: punch.KindIn, Timestamp: mondayAt(9, 0)},
			{ID: "p2", UserID: "emp-1", Kind: punch.KindOut, Timestamp: midday},
			{ID: "p3", UserID: "emp-1", Kind: punch.KindIn, Timestamp: mondayAt(13, 0)},
		}

		err := engine.Evaluate(ctx, "emp-1", punch.KindOut, midday, day)

		require.NoError(t, err)
		assert.Empty(t, reports.reports)
	})
}

func TestWorkedMinutes(t *testing.T) {
	t.Run("pairs each IN with its next OUT", func(t *testing.T) {
		day := []punch.Punch{
			{Kind: punch.KindIn, Timestamp: mondayAt(9, 0)},
			{Kind: punch.KindOut, Timestamp: mondayAt(12, 0)},
			{Kind: punch.KindIn, Timestamp: mondayAt(13, 0)},
			{Kind: punch.KindOut, Timestamp: mondayAt(17, 30)},
		}

		assert.Equal(t, 180+270, workedMinutes(day))
	})

	t.Run("open IN contributes nothing", func(t *testing.T) {
		day := []punch.Punch{
			{Kind: punch.KindIn, Timestamp: mondayAt(9, 0)},
			{Kind: punch.KindOut, Timestamp: mondayAt(12, 0)},
			{Kind: punch.KindIn, Timestamp: mondayAt(13, 0)},
		}

		assert.Equal(t, 180, workedMinutes(day))
	})

	t.Run("leading OUT is ignored", func(t *testing.T) {
		day := []punch.Punch{
			{Kind: punch.KindOut, Timestamp: mondayAt(8, 0)},
			{Kind: punch.KindIn, Timestamp: mondayAt(9, 0)},
			{Kind: punch.KindOut, Timestamp: mondayAt(10, 0)},
		}

		assert.Equal(t, 60, workedMinutes(day))
	})
}

func TestRuleKey(t *testing.T) {
	key := report.RuleKey(report.TypeLateArrival, mondayAt(9, 10), "emp-1", "mgr-1")
	assert.Equal(t, "LATE_ARRIVAL:2026-01-05:emp-1->mgr-1", key)
}
