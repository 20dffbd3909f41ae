package schedule

import "time"

type Period string

const (
	PeriodAM Period = "AM"
	PeriodPM Period = "PM"
)

var PeriodValues = []string{
	string(PeriodAM),
	string(PeriodPM),
}

// Slot is one declared working period for a user: a day of week, an
// AM/PM tag and clock times. Zero or more slots per (user, day).
type Slot struct {
	ID        string
	UserID    string
	DayOfWeek int // 1=Monday, ..., 7=Sunday
	Period    Period
	StartTime *time.Time // time-of-day; date part is ignored
	EndTime   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Window is the expected attendance envelope for one user on one date,
// derived from the day's slots. Nil fields mean "cannot evaluate".
type Window struct {
	// ExpectedStart is the earliest slot start, materialized on the
	// resolved date. Nil when the day has no slots.
	ExpectedStart *time.Time

	// ExpectedEnd is the latest end among PM slots, materialized on the
	// resolved date. Nil when the day has no PM slot.
	ExpectedEnd *time.Time

	// ExpectedMinutes is the summed slot durations; 0 when nothing can
	// be summed.
	ExpectedMinutes int
}
