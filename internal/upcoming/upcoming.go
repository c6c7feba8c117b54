// Package upcoming resolves the single soonest future item for a course:
// either a task due time or the next projection of a recurring weekly class
// slot. The dashboard's "next up" line is built on this.
package upcoming

import (
	"time"

	"myguide/internal/model"
	"myguide/internal/store"
)

type Kind string

const (
	KindTask  Kind = "Task"
	KindClass Kind = "Class"
)

// Occurrence is one resolved upcoming moment. For classes Start/End carry
// the slot's HH:MM clock times for display.
type Occurrence struct {
	Kind  Kind
	At    time.Time
	Title string
	Start string
	End   string
}

// NextOccurrence returns the chronologically soonest of the course's future
// task due times and projected class starts, or ok=false when neither
// exists. On an exact timestamp tie the task wins; the choice is arbitrary
// but deterministic.
func NextOccurrence(c *model.Course, now time.Time) (Occurrence, bool) {
	task, okTask := nextTaskDue(c, now)
	class, okClass := nextClassStart(c, now)

	switch {
	case !okTask && !okClass:
		return Occurrence{}, false
	case !okClass:
		return task, true
	case !okTask:
		return class, true
	case task.At.After(class.At):
		return class, true
	default:
		return task, true
	}
}

// NextClass resolves only the class half: the soonest projected weekly
// class start after now. The reminder scheduler uses this directly.
func NextClass(c *model.Course, now time.Time) (Occurrence, bool) {
	return nextClassStart(c, now)
}

func nextTaskDue(c *model.Course, now time.Time) (Occurrence, bool) {
	var best Occurrence
	found := false
	for _, t := range store.DistinctTasks(c) {
		if t.Due == nil || !t.Due.After(now) {
			continue
		}
		if !found || t.Due.Before(best.At) {
			best = Occurrence{Kind: KindTask, At: *t.Due, Title: t.Title}
			found = true
		}
	}
	return best, found
}

// nextClassStart projects each weekly slot forward from now to its next
// matching day-of-week and clock time in now's location. A slot whose time
// already passed today moves one week out.
func nextClassStart(c *model.Course, now time.Time) (Occurrence, bool) {
	var best Occurrence
	found := false
	for _, ct := range c.ClassTimes {
		hh, mm, err := model.ParseClock(ct.Start)
		if err != nil {
			continue
		}
		ahead := (int(ct.Day) - int(now.Weekday()) + 7) % 7
		y, mo, d := now.AddDate(0, 0, ahead).Date()
		candidate := time.Date(y, mo, d, hh, mm, 0, 0, now.Location())
		if !candidate.After(now) {
			y, mo, d = candidate.AddDate(0, 0, 7).Date()
			candidate = time.Date(y, mo, d, hh, mm, 0, 0, now.Location())
		}
		if !found || candidate.Before(best.At) {
			best = Occurrence{
				Kind:  KindClass,
				At:    candidate,
				Title: c.Label(),
				Start: ct.Start,
				End:   ct.End,
			}
			found = true
		}
	}
	return best, found
}
