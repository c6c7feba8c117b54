// Package reminder computes and arms one-shot notifications for due-dated
// tasks and upcoming classes. Planning is pure: given a task or class and a
// "now" it yields zero or more Jobs; the Engine then owns firing each job
// exactly once at its absolute timestamp.
package reminder

import (
	"fmt"
	"time"

	"myguide/internal/model"
	"myguide/internal/upcoming"
)

const (
	// SafetyBuffer keeps a lead reminder from being armed so close to its
	// firing time that clock drift could push it into the past.
	SafetyBuffer = 60 * time.Second

	hourLead      = time.Hour
	twentyMinLead = 20 * time.Minute

	// confirmationDelay is how soon after scheduling the "task added"
	// confirmation fires.
	confirmationDelay = 500 * time.Millisecond
)

// Job is a single planned notification. Jobs are transient: they are
// recreated from task data each time scheduling runs and never persisted.
type Job struct {
	Title string
	Body  string
	At    time.Time
}

// TaskReminders plans the reminder set for one due-dated task: an immediate
// "added" confirmation, then lead reminders at due−1h and due−20m. Each
// lead is included only when it still lands more than SafetyBuffer in the
// future, independently of the other; a task due in 30 minutes gets only
// the 20-minute reminder. A task with no due date, or one already due,
// plans nothing at all.
func TaskReminders(course model.Course, task model.Task, now time.Time) []Job {
	if task.Due == nil || !task.Due.After(now) {
		return nil
	}
	due := *task.Due
	label := fmt.Sprintf("%s: %s", course.Label(), task.Title)
	dueText := due.Format("Mon Jan 2 15:04")

	jobs := []Job{{
		Title: course.Label() + ": Task added",
		Body:  fmt.Sprintf("%s due %s", task.Title, dueText),
		At:    now.Add(confirmationDelay),
	}}
	jobs = append(jobs, leadReminders(label, "due "+dueText, due, now)...)
	return jobs
}

// ClassReminders plans lead reminders for the course's next class
// occurrence. Classes get no "added" confirmation.
func ClassReminders(course model.Course, now time.Time) []Job {
	next, ok := upcoming.NextClass(&course, now)
	if !ok {
		return nil
	}
	label := fmt.Sprintf("%s: Class soon", course.Label())
	return leadReminders(label, fmt.Sprintf("starts at %s", next.Start), next.At, now)
}

func leadReminders(title, body string, target, now time.Time) []Job {
	jobs := make([]Job, 0, 2)
	for _, lead := range []struct {
		offset time.Duration
		name   string
	}{
		{hourLead, "1 hour left"},
		{twentyMinLead, "20 minutes left"},
	} {
		at := target.Add(-lead.offset)
		if at.Sub(now) <= SafetyBuffer {
			continue
		}
		jobs = append(jobs, Job{
			Title: fmt.Sprintf("%s: %s", title, lead.name),
			Body:  body,
			At:    at,
		})
	}
	return jobs
}
