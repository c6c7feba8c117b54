// Package dateutil holds the calendar-day arithmetic the planner and
// calendar views are built on. All week math is done in whole calendar days
// (AddDate), never in millisecond deltas, and working dates are pinned to
// local noon so a daylight-saving shift inside a week cannot push a date
// onto the adjacent day.
package dateutil

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDateKey = errors.New("dateutil: invalid date key")

// AtNoon returns t's calendar date at 12:00 local time.
func AtNoon(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}

// StartOfWeek returns the local calendar date (at noon) that begins the week
// containing t, for a configurable week-start day.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	d := AtNoon(t)
	back := (int(d.Weekday()) - int(weekStart) + 7) % 7
	return d.AddDate(0, 0, -back)
}

// AddDays shifts t by n calendar days, keeping the noon normalization.
func AddDays(t time.Time, n int) time.Time {
	return AtNoon(t.AddDate(0, 0, n))
}

// LocalDateKey renders t's local calendar date as YYYY-MM-DD. It is computed
// from the local date components, never via a UTC conversion, which would
// silently shift the date near midnight in zones away from UTC.
func LocalDateKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// ParseDateKey reads a YYYY-MM-DD key as local midnight in loc. Inputs with
// no time component are treated as local midnight before any normalization.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	var y, m, d int
	if _, err := fmt.Sscanf(key, "%4d-%2d-%2d", &y, &m, &d); err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc), nil
}
