package schedule

import (
	"time"

	"github.com/presencehq/presence-backend-go/internal/domain/schedule"
)

// ResolveWindow derives the expected attendance window for one date from
// a user's declared slots. Pure and total: absent or malformed slot data
// yields a window with nil fields, which callers treat as "cannot
// evaluate, skip".
func ResolveWindow(date time.Time, slots []schedule.Slot) schedule.Window {
	day := isoWeekday(date.Weekday())

	var window schedule.Window
	for _, slot := range slots {
		if slot.DayOfWeek != day {
			continue
		}

		if slot.StartTime != nil {
			start := onDate(date, *slot.StartTime)
			if window.ExpectedStart == nil || start.Before(*window.ExpectedStart) {
				window.ExpectedStart = &start
			}
		}

		if slot.Period == schedule.PeriodPM && slot.EndTime != nil {
			end := onDate(date, *slot.EndTime)
			if window.ExpectedEnd == nil || end.After(*window.ExpectedEnd) {
				window.ExpectedEnd = &end
			}
		}

		// Slots with missing or inverted times contribute nothing.
		if slot.StartTime != nil && slot.EndTime != nil {
			minutes := int(onDate(date, *slot.EndTime).Sub(onDate(date, *slot.StartTime)).Minutes())
			if minutes > 0 {
				window.ExpectedMinutes += minutes
			}
		}
	}

	return window
}

// isoWeekday maps time.Weekday to the 1=Monday..7=Sunday convention the
// schedule store uses.
func isoWeekday(w time.Weekday) int {
	if w == time.Sunday {
		return 7
	}
	return int(w)
}

// onDate materializes a stored time-of-day on the given calendar date,
// in the date's location.
func onDate(date time.Time, clock time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0,
		date.Location(),
	)
}
