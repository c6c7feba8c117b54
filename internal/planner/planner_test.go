package planner

import (
	"errors"
	"testing"
	"time"

	"myguide/internal/model"
	"myguide/internal/store"
)

func newCourse() model.Course {
	return model.Course{ID: "c-eng227", Code: "ENG 227", Title: "Technical Writing"}
}

func item(id, title string, due time.Time) model.WeeklyItem {
	return model.WeeklyItem{
		ID:        id,
		Title:     title,
		Type:      model.TaskTypeQuiz,
		Due:       due,
		CreatedAt: due.Add(-72 * time.Hour),
	}
}

func TestAddItemToWeekCreatesPlanAndMirrorsTask(t *testing.T) {
	course := newCourse()
	due := time.Date(2025, 1, 7, 23, 59, 0, 0, time.UTC)

	if err := AddItemToWeek(&course, "2025-01-05", item("w-1", "Quiz 1", due)); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(course.WeeklyPlans) != 1 || len(course.WeeklyPlans[0].Items) != 1 {
		t.Fatalf("expected one plan with one item, got %#v", course.WeeklyPlans)
	}
	tasks := store.DistinctTasks(&course)
	if len(tasks) != 1 || tasks[0].Title != "Quiz 1" || tasks[0].SourceID != "w-1" {
		t.Fatalf("expected mirrored task with source linkage, got %#v", tasks)
	}

	// A second add for the same anchor appends to the existing plan.
	if err := AddItemToWeek(&course, "2025-01-05", item("w-2", "Essay outline", due.Add(24*time.Hour))); err != nil {
		t.Fatalf("add second item: %v", err)
	}
	if len(course.WeeklyPlans) != 1 || len(course.WeeklyPlans[0].Items) != 2 {
		t.Fatalf("expected single plan with two items, got %#v", course.WeeklyPlans)
	}
}

func TestAddItemToWeekDuplicateTaskStillAddsItem(t *testing.T) {
	course := newCourse()
	due := time.Date(2025, 1, 7, 23, 59, 0, 0, time.UTC)
	// A task carrying the same source linkage already exists, e.g. from an
	// earlier import of the same plan.
	store.AddTask(&course, model.Task{
		ID: "t-manual", Title: "Quiz 1", Type: model.TaskTypeQuiz, Due: &due,
		AddedAt: due.Add(-time.Hour), Status: model.TaskStatusOpen, SourceID: "w-1",
	})

	if err := AddItemToWeek(&course, "2025-01-05", item("w-1", "Quiz 1", due)); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(course.WeeklyPlans[0].Items) != 1 {
		t.Fatal("weekly item must be added even when the task add is a no-op")
	}
	if got := len(store.DistinctTasks(&course)); got != 1 {
		t.Fatalf("expected 1 distinct task, got %d", got)
	}
}

func TestAddItemToWeekValidates(t *testing.T) {
	course := newCourse()
	bad := model.WeeklyItem{ID: "w-1", Type: model.TaskTypeQuiz, Due: time.Now(), CreatedAt: time.Now()}
	if err := AddItemToWeek(&course, "2025-01-05", bad); err == nil {
		t.Fatal("expected validation error for missing title")
	}
	good := item("w-2", "Quiz 1", time.Now())
	if err := AddItemToWeek(&course, "not-a-week", good); err == nil {
		t.Fatal("expected validation error for bad anchor key")
	}
	if len(course.WeeklyPlans) != 0 {
		t.Fatal("failed adds must not create plans")
	}
}

func TestItemsForDayMergesWithoutDuplicates(t *testing.T) {
	course := newCourse()
	due := time.Date(2025, 1, 7, 23, 59, 0, 0, time.UTC)
	if err := AddItemToWeek(&course, "2025-01-05", item("w-1", "Quiz 1", due)); err != nil {
		t.Fatalf("add item: %v", err)
	}

	// Offset 2 from a Sunday anchor is Tuesday 2025-01-07.
	got, err := ItemsForDay(&course, "2025-01-05", 2, time.UTC)
	if err != nil {
		t.Fatalf("items for day: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Quiz 1" {
		t.Fatalf("expected exactly one merged item, got %#v", got)
	}

	// A separate quick-add task on the same day shows up alongside.
	other := time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC)
	store.AddTask(&course, model.Task{
		ID: "t-q", Title: "Lab prep", Type: model.TaskTypeOther, Due: &other,
		AddedAt: other, Status: model.TaskStatusOpen,
	})
	got, err = ItemsForDay(&course, "2025-01-05", 2, time.UTC)
	if err != nil {
		t.Fatalf("items for day: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected merged plan item + task, got %#v", got)
	}
}

func TestItemsForDayDaylightSavingWeek(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	course := newCourse()
	// Week of 2025-03-09 contains the US spring-forward jump. Wednesday
	// item due late evening local time.
	due := time.Date(2025, 3, 12, 23, 0, 0, 0, loc)
	if err := AddItemToWeek(&course, "2025-03-09", item("w-1", "Midterm review", due)); err != nil {
		t.Fatalf("add item: %v", err)
	}
	got, err := ItemsForDay(&course, "2025-03-09", 3, loc)
	if err != nil {
		t.Fatalf("items for day: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Midterm review" {
		t.Fatalf("expected the Wednesday bucket to hold the item, got %#v", got)
	}
	// The adjacent buckets stay empty; the missing hour moved nothing.
	for _, offset := range []int{2, 4} {
		neighbors, err := ItemsForDay(&course, "2025-03-09", offset, loc)
		if err != nil {
			t.Fatalf("items for day %d: %v", offset, err)
		}
		if len(neighbors) != 0 {
			t.Fatalf("offset %d should be empty, got %#v", offset, neighbors)
		}
	}
}

func TestRemoveItemFromWeekRemovesMatchingTask(t *testing.T) {
	course := newCourse()
	due := time.Date(2025, 1, 7, 23, 59, 0, 0, time.UTC)
	if err := AddItemToWeek(&course, "2025-01-05", item("w-1", "Quiz 1", due)); err != nil {
		t.Fatalf("add item: %v", err)
	}

	RemoveItemFromWeek(&course, "2025-01-05", "w-1")
	if len(course.WeeklyPlans[0].Items) != 0 {
		t.Fatal("item must be removed from the plan")
	}
	if len(course.Tasks) != 0 {
		t.Fatalf("mirrored task must be removed, got %#v", course.Tasks)
	}
}

func TestRemoveItemFromWeekSkipsEditedDue(t *testing.T) {
	course := newCourse()
	due := time.Date(2025, 1, 7, 23, 59, 0, 0, time.UTC)
	if err := AddItemToWeek(&course, "2025-01-05", item("w-1", "Quiz 1", due)); err != nil {
		t.Fatalf("add item: %v", err)
	}
	// Edit the mirrored task's due time; the removal path matches on exact
	// timestamp equality and must leave it behind.
	edited := due.Add(time.Hour)
	course.Tasks[0].Due = &edited

	RemoveItemFromWeek(&course, "2025-01-05", "w-1")
	if len(course.Tasks) != 1 {
		t.Fatalf("edited task must survive removal, got %#v", course.Tasks)
	}

	// Unknown plan and unknown item are silent no-ops.
	RemoveItemFromWeek(&course, "2025-02-02", "w-1")
	RemoveItemFromWeek(&course, "2025-01-05", "w-404")
}

func TestArchiveWeekEmptyFails(t *testing.T) {
	course := newCourse()
	if _, err := ArchiveWeek(&course, "2025-01-05", time.Now()); !errors.Is(err, ErrNoPlan) {
		t.Fatalf("expected ErrNoPlan, got: %v", err)
	}

	due := time.Date(2025, 1, 7, 23, 59, 0, 0, time.UTC)
	if err := AddItemToWeek(&course, "2025-01-05", item("w-1", "Quiz 1", due)); err != nil {
		t.Fatalf("add item: %v", err)
	}
	RemoveItemFromWeek(&course, "2025-01-05", "w-1")

	if _, err := ArchiveWeek(&course, "2025-01-05", time.Now()); !errors.Is(err, ErrEmptyWeek) {
		t.Fatalf("expected ErrEmptyWeek, got: %v", err)
	}
	if len(course.ArchivedWeeks) != 0 {
		t.Fatal("failed archive must not touch archivedWeeks")
	}
}

func TestArchiveWeekFreezesItemsAndAdvancesAnchor(t *testing.T) {
	course := newCourse()
	due := time.Date(2025, 1, 7, 23, 59, 0, 0, time.UTC)
	archivedAt := time.Date(2025, 1, 11, 18, 0, 0, 0, time.UTC)
	if err := AddItemToWeek(&course, "2025-01-05", item("w-1", "Quiz 1", due)); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := AddItemToWeek(&course, "2025-01-05", item("w-2", "Essay outline", due.Add(24*time.Hour))); err != nil {
		t.Fatalf("add item: %v", err)
	}

	next, err := ArchiveWeek(&course, "2025-01-05", archivedAt)
	if err != nil {
		t.Fatalf("archive week: %v", err)
	}
	if next != "2025-01-12" {
		t.Fatalf("next anchor = %s, want 2025-01-12", next)
	}
	if len(course.WeeklyPlans) != 0 {
		t.Fatal("active plan must be removed")
	}
	if len(course.ArchivedWeeks) != 1 {
		t.Fatalf("expected one archived week, got %d", len(course.ArchivedWeeks))
	}
	aw := course.ArchivedWeeks[0]
	if aw.WeekStart != "2025-01-05" || len(aw.Items) != 2 || !aw.ArchivedAt.Equal(archivedAt) {
		t.Fatalf("unexpected archive: %#v", aw)
	}
	// Archiving leaves materialized tasks untouched.
	if got := len(store.DistinctTasks(&course)); got != 2 {
		t.Fatalf("expected tasks to survive archiving, got %d", got)
	}

	// The same anchor can be planned again after archiving.
	if err := AddItemToWeek(&course, "2025-01-05", item("w-3", "Retro", due)); err != nil {
		t.Fatalf("re-plan archived anchor: %v", err)
	}
	if len(course.WeeklyPlans) != 1 {
		t.Fatal("archived anchor must accept a fresh plan")
	}
}
