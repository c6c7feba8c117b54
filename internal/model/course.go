package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidWeekday   = errors.New("model: invalid weekday")
	ErrInvalidClockTime = errors.New("model: invalid clock time")
	ErrDuplicateCourse  = errors.New("model: duplicate course id")
)

// ClassTime is one recurring weekly slot of a course: a day of week plus a
// local start and end clock time in HH:MM form. It carries no date component
// and recurs indefinitely.
type ClassTime struct {
	Day   time.Weekday
	Start string
	End   string
}

func (c ClassTime) Validate() error {
	if c.Day < time.Sunday || c.Day > time.Saturday {
		return fmt.Errorf("%w: %d", ErrInvalidWeekday, c.Day)
	}
	if _, _, err := ParseClock(c.Start); err != nil {
		return fmt.Errorf("class start: %w", err)
	}
	if _, _, err := ParseClock(c.End); err != nil {
		return fmt.Errorf("class end: %w", err)
	}
	return nil
}

// ParseClock splits an "HH:MM" string into hour and minute.
func ParseClock(value string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, value)
	}
	var hh, mm int
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%d %d", &hh, &mm); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, value)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, value)
	}
	return hh, mm, nil
}

// ParseWeekday accepts full or three-letter English day names ("Wednesday",
// "Wed", case-insensitive).
func ParseWeekday(raw string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sun", "sunday":
		return time.Sunday, nil
	case "mon", "monday":
		return time.Monday, nil
	case "tue", "tuesday":
		return time.Tuesday, nil
	case "wed", "wednesday":
		return time.Wednesday, nil
	case "thu", "thursday":
		return time.Thursday, nil
	case "fri", "friday":
		return time.Friday, nil
	case "sat", "saturday":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, raw)
	}
}

// Note is a free-form course note. Content is markdown.
type Note struct {
	ID        string
	Title     string
	Category  string
	Date      string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Course owns every piece of per-subject state: recurring class slots,
// tasks, notes, active weekly plans and archived weeks.
type Course struct {
	ID            string
	Code          string
	Title         string
	Instructor    string
	Color         string
	ClassTimes    []ClassTime
	Tasks         []Task
	Notes         []Note
	WeeklyPlans   []WeeklyPlan
	ArchivedWeeks []ArchivedWeek
}

func (c Course) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("model: course id is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("model: course title is required")
	}
	for i, ct := range c.ClassTimes {
		if err := ct.Validate(); err != nil {
			return fmt.Errorf("class time %d: %w", i, err)
		}
	}
	return nil
}

// Label is the short display name for notifications and cards.
func (c Course) Label() string {
	if c.Code != "" {
		return c.Code
	}
	return c.Title
}

// Store is the whole persisted object graph. It is passed explicitly to
// every component; there is no process-wide singleton.
type Store struct {
	Meta     Meta
	Settings Settings
	Courses  []Course
}

type Meta struct {
	Username         string
	Semester         string
	LastWeeklyPrompt string
}

type Settings struct {
	NotificationsEnabled   bool
	DefaultReminderMinutes int
	WeekStartDay           time.Weekday
}

func DefaultStore() Store {
	return Store{
		Meta: Meta{Username: "Student"},
		Settings: Settings{
			NotificationsEnabled:   true,
			DefaultReminderMinutes: 20,
			WeekStartDay:           time.Sunday,
		},
	}
}
