package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"myguide/internal/commands"
	"myguide/internal/dateutil"
	"myguide/internal/model"
	"myguide/internal/planner"
	"myguide/internal/store"
	"myguide/internal/upcoming"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	mutated := false
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			c := m.findCourse(a.Course)
			if c == nil {
				return commands.Result{}, unknownCourse(a.Course)
			}
			var due *time.Time
			if a.Due != "" {
				parsed, perr := parseDueTime(a.Due)
				if perr != nil {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: perr.Error()}
				}
				due = &parsed
			}
			task := model.Task{
				ID:      m.newID("t"),
				Title:   a.Title,
				Type:    model.NormalizeTaskType(a.Kind),
				Due:     due,
				AddedAt: m.now(),
				Status:  model.TaskStatusOpen,
			}
			if !store.AddTask(c, task) {
				return commands.Result{Message: fmt.Sprintf("duplicate task skipped: %s", a.Title)}, nil
			}
			mutated = true
			m.scheduleTaskReminders(*c, task)
			return commands.Result{Message: fmt.Sprintf("added %s to %s", a.Title, c.Label())}, nil
		},
		Plan: func(p commands.PlanArgs) (commands.Result, error) {
			c := m.findCourse(p.Course)
			if c == nil {
				return commands.Result{}, unknownCourse(p.Course)
			}
			due, perr := parseDueTime(p.Due)
			if perr != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: perr.Error()}
			}
			item := model.WeeklyItem{
				ID:        m.newID("w"),
				Title:     p.Title,
				Type:      model.NormalizeTaskType(p.Kind),
				Due:       due,
				CreatedAt: m.now(),
			}
			if aerr := planner.AddItemToWeek(c, p.Week, item); aerr != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: aerr.Error()}
			}
			mutated = true
			m.scheduleTaskReminders(*c, model.Task{
				ID:       "t-" + item.ID,
				Title:    item.Title,
				Type:     item.Type,
				Due:      &item.Due,
				SourceID: item.ID,
			})
			return commands.Result{Message: fmt.Sprintf("planned %s for week of %s", p.Title, p.Week)}, nil
		},
		Archive: func(a commands.ArchiveArgs) (commands.Result, error) {
			c := m.findCourse(a.Course)
			if c == nil {
				return commands.Result{}, unknownCourse(a.Course)
			}
			nextKey, aerr := planner.ArchiveWeek(c, a.Week, m.now())
			if aerr != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: aerr.Error()}
			}
			mutated = true
			return commands.Result{Message: fmt.Sprintf("archived week of %s; next week starts %s", a.Week, nextKey)}, nil
		},
		Next: func(n commands.NextArgs) (commands.Result, error) {
			if n.Course != "" {
				c := m.findCourse(n.Course)
				if c == nil {
					return commands.Result{}, unknownCourse(n.Course)
				}
				next, ok := upcoming.NextOccurrence(c, m.now())
				if !ok {
					return commands.Result{Message: "nothing upcoming for " + c.Label()}, nil
				}
				return commands.Result{Message: "next: " + formatOccurrence(next)}, nil
			}
			line := m.nextUpLine()
			if line == "" {
				return commands.Result{Message: "nothing upcoming"}, nil
			}
			return commands.Result{Message: "next: " + line}, nil
		},
		Note: func(n commands.NoteArgs) (commands.Result, error) {
			c := m.findCourse(n.Course)
			if c == nil {
				return commands.Result{}, unknownCourse(n.Course)
			}
			note := model.Note{
				ID:        m.newID("n"),
				Title:     n.Title,
				Date:      dateutil.LocalDateKey(m.now()),
				CreatedAt: m.now(),
			}
			store.AddNote(c, note)
			mutated = true
			return commands.Result{Message: fmt.Sprintf("noted %s in %s", n.Title, c.Label())}, nil
		},
		Done: func(d commands.DoneArgs) (commands.Result, error) {
			c := m.findCourse(d.Course)
			if c == nil {
				return commands.Result{}, unknownCourse(d.Course)
			}
			if !hasTask(c, d.Task) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task %s in %s", d.Task, c.Label())}
			}
			store.CloseTask(c, d.Task)
			mutated = true
			return commands.Result{Message: fmt.Sprintf("closed %s", d.Task)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	m.Status = StatusBar{Text: res.Message}
	m.refreshAgenda()
	m.syncBubbleData()
	if mutated {
		return m, saveStoreCmd(m.repo, m.Store)
	}
	return m, nil
}

// findCourse resolves the palette's course argument against both the course
// ID and its short code, case-insensitively.
func (m *Model) findCourse(ref string) *model.Course {
	for i := range m.Store.Courses {
		c := &m.Store.Courses[i]
		if strings.EqualFold(c.ID, ref) || (c.Code != "" && strings.EqualFold(c.Code, ref)) {
			return c
		}
	}
	return nil
}

func (m *Model) scheduleTaskReminders(course model.Course, task model.Task) {
	if m.scheduler == nil || !m.Store.Settings.NotificationsEnabled {
		return
	}
	m.scheduler.ScheduleTask(course, task, m.now())
}

func hasTask(c *model.Course, taskID string) bool {
	for _, t := range c.Tasks {
		if t.ID == taskID {
			return true
		}
	}
	return false
}

func unknownCourse(ref string) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown course: %s", ref)}
}

var dueLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func parseDueTime(raw string) (time.Time, error) {
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable due time: %q", raw)
}
