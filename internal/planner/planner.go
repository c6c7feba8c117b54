// Package planner manages per-course weekly plans: adding items to a week,
// bucketing the merged week view by calendar day, and archiving a finished
// week into history.
//
// A (course, week anchor) pair moves between three states: absent, active
// (a WeeklyPlan exists and is mutable) and archived (its items were copied
// into an ArchivedWeek and the live plan removed). Archiving never blocks
// planning the same anchor again later.
package planner

import (
	"errors"
	"fmt"
	"time"

	"myguide/internal/dateutil"
	"myguide/internal/model"
	"myguide/internal/store"
)

var (
	ErrNoPlan    = errors.New("planner: no plan for that week")
	ErrEmptyWeek = errors.New("planner: week has no items")
)

func findPlan(c *model.Course, weekStart string) *model.WeeklyPlan {
	for i := range c.WeeklyPlans {
		if c.WeeklyPlans[i].WeekStart == weekStart {
			return &c.WeeklyPlans[i]
		}
	}
	return nil
}

// AddItemToWeek finds or creates the plan for the anchor, appends the item,
// and mirrors it into the course's task collection as a Task whose SourceID
// is the item's ID. If the mirrored task collides with an existing one the
// task add is a silent no-op but the weekly item is still added; the two
// track different identifiers.
func AddItemToWeek(c *model.Course, weekStart string, item model.WeeklyItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if _, err := dateutil.ParseDateKey(weekStart, nil); err != nil {
		return err
	}

	plan := findPlan(c, weekStart)
	if plan == nil {
		c.WeeklyPlans = append(c.WeeklyPlans, model.WeeklyPlan{WeekStart: weekStart})
		plan = &c.WeeklyPlans[len(c.WeeklyPlans)-1]
	}
	plan.Items = append(plan.Items, item)

	due := item.Due
	store.AddTask(c, model.Task{
		ID:       "t-" + item.ID,
		Title:    item.Title,
		Type:     item.Type,
		Due:      &due,
		AddedAt:  item.CreatedAt,
		Status:   model.TaskStatusOpen,
		SourceID: item.ID,
	})
	return nil
}

// RemoveItemFromWeek removes the item from the plan and deletes any task
// matching the item by title and exact due-timestamp equality. A task whose
// due time was edited after creation will not match and stays behind; that
// mirrors the stored linkage and is intentional.
// Missing plans and missing items are no-ops.
func RemoveItemFromWeek(c *model.Course, weekStart, itemID string) {
	plan := findPlan(c, weekStart)
	if plan == nil {
		return
	}
	var removed *model.WeeklyItem
	for i := range plan.Items {
		if plan.Items[i].ID == itemID {
			it := plan.Items[i]
			removed = &it
			plan.Items = append(plan.Items[:i], plan.Items[i+1:]...)
			break
		}
	}
	if removed == nil {
		return
	}
	kept := c.Tasks[:0]
	for _, t := range c.Tasks {
		if t.Title == removed.Title && t.Due != nil && t.Due.Equal(removed.Due) {
			continue
		}
		kept = append(kept, t)
	}
	c.Tasks = kept
}

// ItemsForDay returns the merged, deduplicated union of the week's planned
// items and the course's tasks falling on weekStart + dayOffset. Membership
// is decided by local calendar date key, not absolute time, so a
// daylight-saving transition inside the week cannot shift an item into the
// wrong bucket. Duplicates are collapsed by (title, due); planned items win.
func ItemsForDay(c *model.Course, weekStart string, dayOffset int, loc *time.Location) ([]model.WeeklyItem, error) {
	anchor, err := dateutil.ParseDateKey(weekStart, loc)
	if err != nil {
		return nil, err
	}
	dayKey := dateutil.LocalDateKey(dateutil.AddDays(anchor, dayOffset))

	merged := make([]model.WeeklyItem, 0)
	seen := make(map[string]bool)
	add := func(it model.WeeklyItem) {
		key := it.Title + "|" + it.Due.Format(time.RFC3339)
		if seen[key] {
			return
		}
		seen[key] = true
		merged = append(merged, it)
	}

	if plan := findPlan(c, weekStart); plan != nil {
		for _, it := range plan.Items {
			if dateutil.LocalDateKey(it.Due) == dayKey {
				add(it)
			}
		}
	}
	for _, t := range store.TasksOnLocalDate(c, dayKey) {
		add(model.WeeklyItem{
			ID:        t.ID,
			Title:     t.Title,
			Type:      t.Type,
			Due:       *t.Due,
			CreatedAt: t.AddedAt,
		})
	}
	return merged, nil
}

// ArchiveWeek freezes the active plan's items into a new ArchivedWeek
// stamped with now, removes the live plan, and returns the anchor advanced
// by seven days as the suggested next planning week. The suggestion is not
// applied anywhere automatically.
//
// Archiving a missing plan returns ErrNoPlan and an empty plan ErrEmptyWeek;
// neither touches the course. Materialized tasks are left alone.
func ArchiveWeek(c *model.Course, weekStart string, now time.Time) (string, error) {
	anchor, err := dateutil.ParseDateKey(weekStart, nil)
	if err != nil {
		return "", err
	}

	idx := -1
	for i := range c.WeeklyPlans {
		if c.WeeklyPlans[i].WeekStart == weekStart {
			idx = i
			break
		}
	}
	if idx == -1 {
		return "", fmt.Errorf("%w: %s", ErrNoPlan, weekStart)
	}
	plan := c.WeeklyPlans[idx]
	if len(plan.Items) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyWeek, weekStart)
	}

	frozen := make([]model.WeeklyItem, len(plan.Items))
	copy(frozen, plan.Items)
	c.ArchivedWeeks = append(c.ArchivedWeeks, model.ArchivedWeek{
		WeekStart:  weekStart,
		Items:      frozen,
		ArchivedAt: now,
	})
	c.WeeklyPlans = append(c.WeeklyPlans[:idx], c.WeeklyPlans[idx+1:]...)

	return dateutil.LocalDateKey(dateutil.AddDays(anchor, 7)), nil
}
