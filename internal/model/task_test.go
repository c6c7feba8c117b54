package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	due := now.Add(48 * time.Hour)
	task := Task{
		ID:      "t-1",
		Title:   "Problem set 3",
		Type:    TaskTypeAssignment,
		Due:     &due,
		AddedAt: now,
		Status:  TaskStatusOpen,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateInvalidEnums(t *testing.T) {
	now := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:      "t-1",
		Title:   "Bad type",
		Type:    TaskType("Exam"),
		AddedAt: now,
		Status:  TaskStatusOpen,
	}
	if err := task.Validate(); err == nil || !errors.Is(err, ErrInvalidTaskType) {
		t.Fatalf("expected ErrInvalidTaskType, got: %v", err)
	}

	task.Type = TaskTypeQuiz
	task.Status = TaskStatus("done")
	if err := task.Validate(); err == nil || !errors.Is(err, ErrInvalidTaskStatus) {
		t.Fatalf("expected ErrInvalidTaskStatus, got: %v", err)
	}
}

func TestNormalizeTaskTypeFoldsExamIntoAssignment(t *testing.T) {
	cases := map[string]TaskType{
		"Assignment": TaskTypeAssignment,
		"Exam":       TaskTypeAssignment,
		"exam":       TaskTypeAssignment,
		"Quiz":       TaskTypeQuiz,
		"Other":      TaskTypeOther,
		"reading":    TaskTypeOther,
		"":           TaskTypeOther,
	}
	for raw, want := range cases {
		if got := NormalizeTaskType(raw); got != want {
			t.Fatalf("NormalizeTaskType(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestDedupKeyPrefersSourceID(t *testing.T) {
	due := time.Date(2025, 1, 7, 23, 59, 0, 0, time.UTC)
	a := Task{ID: "t-1", Title: "Quiz 1", Type: TaskTypeQuiz, Due: &due, SourceID: "w-1"}
	b := Task{ID: "t-2", Title: "renamed later", Type: TaskTypeOther, Due: nil, SourceID: "w-1"}
	if a.DedupKey() != b.DedupKey() {
		t.Fatalf("tasks sharing a source id must share a dedup key: %q vs %q", a.DedupKey(), b.DedupKey())
	}
}

func TestDedupKeyFallsBackToTitleTypeDue(t *testing.T) {
	due := time.Date(2025, 1, 7, 23, 59, 0, 0, time.UTC)
	a := Task{ID: "t-1", Title: "Quiz 1", Type: TaskTypeQuiz, Due: &due}
	b := Task{ID: "t-2", Title: "Quiz 1", Type: TaskTypeQuiz, Due: &due}
	c := Task{ID: "t-3", Title: "Quiz 1", Type: TaskTypeQuiz}
	if a.DedupKey() != b.DedupKey() {
		t.Fatalf("same (title, type, due) must collide: %q vs %q", a.DedupKey(), b.DedupKey())
	}
	if a.DedupKey() == c.DedupKey() {
		t.Fatal("a missing due date must not collide with a dated task")
	}
}

func TestParseWeekday(t *testing.T) {
	for raw, want := range map[string]time.Weekday{
		"Wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"Sun":       time.Sunday,
		"saturday":  time.Saturday,
	} {
		got, err := ParseWeekday(raw)
		if err != nil {
			t.Fatalf("ParseWeekday(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseWeekday(%q) = %v, want %v", raw, got, want)
		}
	}
	if _, err := ParseWeekday("someday"); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got: %v", err)
	}
}

func TestClassTimeValidate(t *testing.T) {
	good := ClassTime{Day: time.Wednesday, Start: "10:00", End: "11:00"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid class time, got: %v", err)
	}
	bad := ClassTime{Day: time.Wednesday, Start: "25:00", End: "11:00"}
	if err := bad.Validate(); err == nil || !errors.Is(err, ErrInvalidClockTime) {
		t.Fatalf("expected ErrInvalidClockTime, got: %v", err)
	}
}
