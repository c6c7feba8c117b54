package reminder

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"myguide/internal/model"
)

// Notifier is the host notification surface. RequestPermission blocks until
// the host answers; Show is fire-and-forget.
type Notifier interface {
	RequestPermission() bool
	Show(title, body string)
}

// NoopNotifier denies permission and swallows everything. Used in tests and
// when notifications are disabled in settings.
type NoopNotifier struct{}

func (NoopNotifier) RequestPermission() bool { return false }
func (NoopNotifier) Show(string, string)     {}

// DesktopNotifier shells out to the platform notifier.
type DesktopNotifier struct{}

func (DesktopNotifier) RequestPermission() bool {
	switch runtime.GOOS {
	case "linux":
		_, err := exec.LookPath("notify-send")
		return err == nil
	case "darwin":
		return true
	default:
		return false
	}
}

func (DesktopNotifier) Show(title, body string) {
	switch runtime.GOOS {
	case "linux":
		_ = exec.Command("notify-send", title, body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(body), escapeAppleScript(title))
		_ = exec.Command("osascript", "-e", script).Run()
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Scheduler plans reminders for tasks and classes and arms them on the
// engine. Permission is requested once, lazily, before the first arm; a
// denial is remembered and later calls complete with zero visible effect
// and no error. Armed jobs fire exactly once and, beyond Handle.Cancel,
// cannot be retracted: deleting a task does not recall its reminders.
type Scheduler struct {
	engine   *Engine
	notifier Notifier

	mu      sync.Mutex
	asked   bool
	granted bool
}

func NewScheduler(engine *Engine, notifier Notifier) *Scheduler {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Scheduler{engine: engine, notifier: notifier}
}

// Start runs the engine and the dispatch loop that forwards fired jobs to
// the notifier.
func (s *Scheduler) Start() {
	s.engine.Start()
	go func() {
		for job := range s.engine.C() {
			s.notifier.Show(job.Title, job.Body)
		}
	}()
}

func (s *Scheduler) Stop() {
	s.engine.Stop()
}

// ScheduleTask plans and arms the reminder set for one task. The returned
// handles are in job order; a nil slice means nothing was armed.
func (s *Scheduler) ScheduleTask(course model.Course, task model.Task, now time.Time) []*Handle {
	return s.arm(TaskReminders(course, task, now))
}

// ScheduleClass plans and arms reminders for the course's next class.
func (s *Scheduler) ScheduleClass(course model.Course, now time.Time) []*Handle {
	return s.arm(ClassReminders(course, now))
}

// arm requests permission first, then arms each job against the clock as it
// stands after the request returns. The prompt can block for a while; a job
// whose fire time elapsed during the wait is dropped rather than fired late.
func (s *Scheduler) arm(jobs []Job) []*Handle {
	if len(jobs) == 0 {
		return nil
	}
	if !s.permission() {
		return nil
	}
	handles := make([]*Handle, 0, len(jobs))
	for _, job := range jobs {
		h, err := s.engine.Arm(job)
		if err != nil {
			break
		}
		if h != nil {
			handles = append(handles, h)
		}
	}
	if len(handles) == 0 {
		return nil
	}
	return handles
}

// permission asks the notifier once and caches the answer. Denial is a
// terminal state, not an error; it is never retried within a session.
func (s *Scheduler) permission() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.asked {
		s.asked = true
		s.granted = s.notifier.RequestPermission()
	}
	return s.granted
}
