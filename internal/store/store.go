// Package store mutates and queries the in-memory course graph. Every
// operation takes the store or course explicitly; persistence is the
// caller's job after a mutation returns.
package store

import (
	"sort"

	"myguide/internal/dateutil"
	"myguide/internal/model"
)

// FindCourse returns a pointer into the store's course slice, or nil.
func FindCourse(s *model.Store, courseID string) *model.Course {
	for i := range s.Courses {
		if s.Courses[i].ID == courseID {
			return &s.Courses[i]
		}
	}
	return nil
}

// AddCourse validates and appends a course. A course with a duplicate ID is
// rejected so lookups stay unambiguous.
func AddCourse(s *model.Store, c model.Course) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if FindCourse(s, c.ID) != nil {
		return model.ErrDuplicateCourse
	}
	s.Courses = append(s.Courses, c)
	return nil
}

// RemoveCourse deletes a course by ID. Missing courses are a no-op.
func RemoveCourse(s *model.Store, courseID string) {
	for i := range s.Courses {
		if s.Courses[i].ID == courseID {
			s.Courses = append(s.Courses[:i], s.Courses[i+1:]...)
			return
		}
	}
}

// AddTask appends a task to the course. If a task with the same dedup key
// already exists the call is a silent no-op; the returned bool reports
// whether anything was added.
func AddTask(c *model.Course, task model.Task) bool {
	key := task.DedupKey()
	for _, existing := range c.Tasks {
		if existing.DedupKey() == key {
			return false
		}
	}
	c.Tasks = append(c.Tasks, task)
	return true
}

// RemoveTask removes a task by identity. Absent tasks are a no-op.
func RemoveTask(c *model.Course, taskID string) {
	for i := range c.Tasks {
		if c.Tasks[i].ID == taskID {
			c.Tasks = append(c.Tasks[:i], c.Tasks[i+1:]...)
			return
		}
	}
}

// DistinctTasks returns the course's tasks with duplicates removed by dedup
// key, preserving insertion order; the first-inserted instance wins. This
// backs every "list of tasks" view, so a caller never sees both halves of a
// planner dual-write.
func DistinctTasks(c *model.Course) []model.Task {
	seen := make(map[string]bool, len(c.Tasks))
	out := make([]model.Task, 0, len(c.Tasks))
	for _, t := range c.Tasks {
		key := t.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// TasksOnLocalDate returns distinct tasks whose due timestamp falls on the
// given local calendar date, soonest first. Tasks without a due date are
// excluded.
func TasksOnLocalDate(c *model.Course, dateKey string) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range DistinctTasks(c) {
		if t.Due == nil {
			continue
		}
		if dateutil.LocalDateKey(*t.Due) == dateKey {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Due.Before(*out[j].Due)
	})
	return out
}

// CloseTask marks a task closed. Missing tasks are a no-op.
func CloseTask(c *model.Course, taskID string) {
	setStatus(c, taskID, model.TaskStatusClosed)
}

// ReopenTask marks a task open again. Missing tasks are a no-op.
func ReopenTask(c *model.Course, taskID string) {
	setStatus(c, taskID, model.TaskStatusOpen)
}

func setStatus(c *model.Course, taskID string, status model.TaskStatus) {
	for i := range c.Tasks {
		if c.Tasks[i].ID == taskID {
			c.Tasks[i].Status = status
			return
		}
	}
}

// AddNote appends a note to the course.
func AddNote(c *model.Course, note model.Note) {
	c.Notes = append(c.Notes, note)
}

// RemoveNote deletes a note by ID. Absent notes are a no-op.
func RemoveNote(c *model.Course, noteID string) {
	for i := range c.Notes {
		if c.Notes[i].ID == noteID {
			c.Notes = append(c.Notes[:i], c.Notes[i+1:]...)
			return
		}
	}
}
