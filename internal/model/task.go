package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidTaskType   = errors.New("model: invalid task type")
	ErrInvalidTaskStatus = errors.New("model: invalid task status")
)

type TaskType string

const (
	TaskTypeAssignment TaskType = "Assignment"
	TaskTypeQuiz       TaskType = "Quiz"
	TaskTypeOther      TaskType = "Other"
)

func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeAssignment, TaskTypeQuiz, TaskTypeOther:
		return true
	default:
		return false
	}
}

// NormalizeTaskType maps free-form type labels onto the stored enum.
// "Exam" is folded into Assignment; anything unrecognized becomes Other.
func NormalizeTaskType(raw string) TaskType {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "assignment", "exam":
		return TaskTypeAssignment
	case "quiz":
		return TaskTypeQuiz
	default:
		return TaskTypeOther
	}
}

type TaskStatus string

const (
	TaskStatusOpen   TaskStatus = "open"
	TaskStatusClosed TaskStatus = "closed"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusClosed:
		return true
	default:
		return false
	}
}

// Task is a single due-dated unit of work tied to a course. A nil Due means
// the task has no due date and is excluded from day buckets and reminders.
// SourceID links a task mirrored from a weekly planner item so the two views
// deduplicate against each other.
type Task struct {
	ID       string
	Title    string
	Type     TaskType
	Due      *time.Time
	AddedAt  time.Time
	Status   TaskStatus
	SourceID string
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTaskType, t.Type)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTaskStatus, t.Status)
	}
	if t.AddedAt.IsZero() {
		return errors.New("model: task added_at is required")
	}
	return nil
}

// DedupKey derives the composite identity used to detect duplicate tasks:
// the source linkage when present, otherwise the (title, type, due) triple.
// Every consumer that needs duplicate detection goes through this one
// function rather than comparing fields ad hoc.
func (t Task) DedupKey() string {
	if t.SourceID != "" {
		return "src:" + t.SourceID
	}
	due := ""
	if t.Due != nil {
		due = t.Due.Format(time.RFC3339)
	}
	return t.Title + "|" + string(t.Type) + "|" + due
}
