package views

import (
	"fmt"
	"sort"
	"strings"
)

type DashboardCourseData struct {
	Label     string
	Title     string
	OpenTasks int
	NextUp    string
}

type DashboardPanelData struct {
	Username string
	Semester string
	ListView string
	Courses  []DashboardCourseData
	NextUp   string
}

type PlannerDayData struct {
	Date  string
	Lines []string
}

type PlannerPanelData struct {
	CourseLabel   string
	WeekStart     string
	Days          []PlannerDayData
	ArchivedCount int
}

type AgendaItemData struct {
	ID    string
	Title string
	Date  string
	Time  string
	Kind  string
}

type CalendarPanelData struct {
	FocusDate string
	TableView string
	Items     []AgendaItemData
	Selected  *AgendaItemData
}

type NoteEntryData struct {
	ID    string
	Title string
	Date  string
}

type NotesPanelData struct {
	CourseLabel  string
	Notes        []NoteEntryData
	SelectedID   string
	MarkdownView string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderDashboardPanel(data DashboardPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("hello, %s", data.Username))
	if data.Semester != "" {
		b.WriteString(" | " + data.Semester)
	}
	b.WriteString("\n")
	if data.NextUp != "" {
		b.WriteString("next up: " + data.NextUp + "\n")
	}
	b.WriteString("actions: [j/k]course [1]dashboard [2]planner [3]calendar [4]notes\n")
	b.WriteString(data.ListView + "\n")
	if len(data.Courses) == 0 {
		b.WriteString("(no courses yet, try /add)")
		return strings.TrimSpace(b.String())
	}
	for _, c := range data.Courses {
		b.WriteString(fmt.Sprintf("- %s %s | open tasks: %d", c.Label, c.Title, c.OpenTasks))
		if c.NextUp != "" {
			b.WriteString(" | next: " + c.NextUp)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderPlannerPanel(data PlannerPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("planner: %s | week of %s\n", data.CourseLabel, data.WeekStart))
	b.WriteString("actions: [h/l]week [j/k]course /plan /archive\n")
	for _, day := range data.Days {
		b.WriteString(fmt.Sprintf("\n%s:\n", day.Date))
		if len(day.Lines) == 0 {
			b.WriteString("  (free)\n")
			continue
		}
		for _, line := range day.Lines {
			b.WriteString("  " + line + "\n")
		}
	}
	if data.ArchivedCount > 0 {
		b.WriteString(fmt.Sprintf("\narchived weeks: %d\n", data.ArchivedCount))
	}
	return strings.TrimSpace(b.String())
}

func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString("calendar:\n")
	b.WriteString(fmt.Sprintf("focus: %s\n", data.FocusDate))
	b.WriteString("actions: [h/l]day [j/k]agenda\n")
	b.WriteString(data.TableView + "\n")

	grouped := make(map[string][]AgendaItemData)
	keys := make([]string, 0)
	for _, item := range data.Items {
		if _, ok := grouped[item.Date]; !ok {
			keys = append(keys, item.Date)
		}
		grouped[item.Date] = append(grouped[item.Date], item)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		b.WriteString("(agenda empty)")
		return b.String()
	}

	for _, day := range keys {
		b.WriteString(fmt.Sprintf("\n%s:\n", day))
		items := grouped[day]
		sort.SliceStable(items, func(i, j int) bool { return items[i].Time < items[j].Time })
		for _, item := range items {
			cursor := " "
			if data.Selected != nil && data.Selected.ID == item.ID {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s [%s] %s %s\n", cursor, strings.ToUpper(item.Kind), item.Time, item.Title))
		}
	}

	if data.Selected != nil {
		b.WriteString("\nagenda-metadata:\n")
		b.WriteString(fmt.Sprintf("id: %s\n", data.Selected.ID))
		b.WriteString(fmt.Sprintf("kind: %s\n", data.Selected.Kind))
		b.WriteString(fmt.Sprintf("when: %s %s\n", data.Selected.Date, data.Selected.Time))
	}
	return strings.TrimSpace(b.String())
}

func RenderNotesPanel(data NotesPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("notes: %s\n", data.CourseLabel))
	b.WriteString("actions: [j/k]note /note\n")
	if len(data.Notes) == 0 {
		b.WriteString("(no notes)")
		return b.String()
	}
	for _, n := range data.Notes {
		cursor := " "
		if n.ID == data.SelectedID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s", cursor, n.Title))
		if n.Date != "" {
			b.WriteString(" @" + n.Date)
		}
		b.WriteString("\n")
	}
	if data.MarkdownView != "" {
		b.WriteString("\npreview:\n" + data.MarkdownView)
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
