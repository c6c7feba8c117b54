package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// WeeklyItem structurally mirrors Task but lives inside one week's plan.
// When an item is created the planner also materializes a Task carrying the
// item's ID as its SourceID, so both views stay consistent.
type WeeklyItem struct {
	ID        string
	Title     string
	Type      TaskType
	Due       time.Time
	CreatedAt time.Time
}

func (w WeeklyItem) Validate() error {
	if strings.TrimSpace(w.ID) == "" {
		return errors.New("model: weekly item id is required")
	}
	if strings.TrimSpace(w.Title) == "" {
		return errors.New("model: weekly item title is required")
	}
	if !w.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTaskType, w.Type)
	}
	if w.Due.IsZero() {
		return errors.New("model: weekly item due is required")
	}
	return nil
}

// WeeklyPlan is the mutable set of items planned for one specific week,
// keyed by the local calendar date of the week's first day. At most one
// plan exists per course per anchor.
type WeeklyPlan struct {
	WeekStart string
	Items     []WeeklyItem
}

// ArchivedWeek is an immutable snapshot of a past WeeklyPlan. Archiving is
// keyed by the archive event, not by anchor, so the same anchor can be
// planned and archived again later.
type ArchivedWeek struct {
	WeekStart  string
	Items      []WeeklyItem
	ArchivedAt time.Time
}
