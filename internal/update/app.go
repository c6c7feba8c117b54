// Package update holds the bubbletea model that drives the terminal UI:
// view switching, the command palette, and the glue between the course
// store, the weekly planner, the reminder scheduler and persistence.
package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"myguide/internal/dateutil"
	"myguide/internal/model"
	"myguide/internal/reminder"
	"myguide/internal/store"
	"myguide/internal/upcoming"
	"myguide/internal/views"
)

func NewModel(st model.Store) Model {
	m := Model{
		Store:       st,
		CurrentView: ViewDashboard,
		Keys: GlobalKeyMap{
			Dashboard: "1",
			Planner:   "2",
			Calendar:  "3",
			Notes:     "4",
			Help:      "?",
			Quit:      "q",
		},
		now: time.Now,
	}
	m.WeekAnchor = dateutil.StartOfWeek(m.now(), st.Settings.WeekStartDay)
	m.Calendar.FocusDate = dateutil.AtNoon(m.now())
	m.nextID = countEntities(st) + 1
	m.initBubbleComponents()
	m.refreshAgenda()
	m.syncBubbleData()
	return m
}

func NewModelWithRuntime(st model.Store, repo Repository, sched *reminder.Scheduler, cfg RuntimeConfig) Model {
	if cfg.WeekStartDay != "" {
		if wd, err := model.ParseWeekday(cfg.WeekStartDay); err == nil {
			st.Settings.WeekStartDay = wd
		}
	}
	m := NewModel(st)
	m.repo = repo
	m.scheduler = sched
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Dashboard:
			m.CurrentView = ViewDashboard
			m.syncBubbleData()
			return m, nil
		case m.Keys.Planner:
			m.CurrentView = ViewPlanner
			return m, nil
		case m.Keys.Calendar:
			m.CurrentView = ViewCalendar
			m.refreshAgenda()
			m.syncBubbleData()
			return m, nil
		case m.Keys.Notes:
			m.CurrentView = ViewNotes
			m.syncBubbleData()
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "j":
			m.moveCursor(1)
			m.syncBubbleData()
			return m, nil
		case "k":
			m.moveCursor(-1)
			m.syncBubbleData()
			return m, nil
		case "h":
			m.shiftPeriod(-1)
			m.syncBubbleData()
			return m, nil
		case "l":
			m.shiftPeriod(1)
			m.syncBubbleData()
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			if typed.View == ViewCalendar {
				m.refreshAgenda()
			}
			m.syncBubbleData()
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case StoreSavedMsg:
		if typed.Err != nil {
			m.Status = StatusBar{Text: fmt.Sprintf("save failed: %v", typed.Err), IsError: true}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	courseLabel := "(none)"
	if c, ok := m.currentCourse(); ok {
		courseLabel = c.Label()
	}

	main := ""
	side := m.renderCommandPalette() + m.renderHelpIfVisible()
	switch m.CurrentView {
	case ViewDashboard:
		main = m.renderDashboardView()
	case ViewPlanner:
		main = m.renderPlannerView()
	case ViewCalendar:
		main = m.renderCalendarView()
	case ViewNotes:
		main = m.renderNotesView()
	}

	notification := ""
	if m.LastError != nil {
		notification = views.RenderNotification("error", m.LastError.Error())
	}

	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("myguide | view: %s | course: %s", m.CurrentView, courseLabel),
		Main:          main,
		Side:          side,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Notification:  notification,
		Footer: fmt.Sprintf("keys: %s dashboard | %s planner | %s calendar | %s notes | %s help | %s quit",
			m.Keys.Dashboard, m.Keys.Planner, m.Keys.Calendar, m.Keys.Notes, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewDashboard, ViewPlanner, ViewCalendar, ViewNotes:
		return true
	default:
		return false
	}
}

func (m *Model) initBubbleComponents() {
	m.courseList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.courseList.Title = "Courses"
	m.courseList.SetShowHelp(false)
	m.courseList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Time", Width: 7},
		{Title: "Kind", Width: 8},
		{Title: "Title", Width: 24},
	}
	m.agendaTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.noteViewport = viewport.New(54, 12)
	m.helpModel = help.New()
}

func (m *Model) syncBubbleData() {
	items := make([]list.Item, 0, len(m.Store.Courses))
	for i := range m.Store.Courses {
		c := &m.Store.Courses[i]
		desc := fmt.Sprintf("%d open tasks", countOpenTasks(c))
		if next, ok := upcoming.NextOccurrence(c, m.now()); ok {
			desc += " | next " + formatOccurrence(next)
		}
		items = append(items, listItem{title: c.Label() + " " + c.Title, description: desc})
	}
	m.courseList.SetItems(items)
	if len(items) > 0 {
		m.courseList.Select(m.CourseCursor)
	}

	rows := make([]table.Row, 0, len(m.Calendar.Items))
	for _, item := range m.Calendar.Items {
		rows = append(rows, table.Row{item.Date, item.Time, strings.ToUpper(item.Kind), item.Title})
	}
	m.agendaTable.SetRows(rows)
	if len(rows) > 0 && m.Calendar.Cursor < len(rows) {
		m.agendaTable.SetCursor(m.Calendar.Cursor)
	}

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}

	if note, ok := m.currentNote(); ok {
		md := note.Content
		if strings.TrimSpace(md) == "" {
			md = "_Empty note_"
		}
		m.noteViewport.SetContent(views.RenderMarkdown(md))
	}
}

func (m *Model) currentCourse() (*model.Course, bool) {
	if len(m.Store.Courses) == 0 {
		return nil, false
	}
	if m.CourseCursor < 0 {
		m.CourseCursor = 0
	}
	if m.CourseCursor >= len(m.Store.Courses) {
		m.CourseCursor = len(m.Store.Courses) - 1
	}
	return &m.Store.Courses[m.CourseCursor], true
}

func (m *Model) currentNote() (model.Note, bool) {
	c, ok := m.currentCourse()
	if !ok || len(c.Notes) == 0 {
		return model.Note{}, false
	}
	if m.NoteCursor < 0 {
		m.NoteCursor = 0
	}
	if m.NoteCursor >= len(c.Notes) {
		m.NoteCursor = len(c.Notes) - 1
	}
	return c.Notes[m.NoteCursor], true
}

func (m *Model) moveCursor(delta int) {
	switch m.CurrentView {
	case ViewCalendar:
		m.Calendar.Cursor += delta
		if m.Calendar.Cursor < 0 {
			m.Calendar.Cursor = 0
		}
		if m.Calendar.Cursor >= len(m.Calendar.Items) && len(m.Calendar.Items) > 0 {
			m.Calendar.Cursor = len(m.Calendar.Items) - 1
		}
	case ViewNotes:
		m.NoteCursor += delta
		if m.NoteCursor < 0 {
			m.NoteCursor = 0
		}
	default:
		m.CourseCursor += delta
		if m.CourseCursor < 0 {
			m.CourseCursor = 0
		}
		if m.CourseCursor >= len(m.Store.Courses) && len(m.Store.Courses) > 0 {
			m.CourseCursor = len(m.Store.Courses) - 1
		}
		m.NoteCursor = 0
	}
}

// shiftPeriod moves the focused period left or right: a week on the planner,
// a day on the calendar.
func (m *Model) shiftPeriod(delta int) {
	switch m.CurrentView {
	case ViewPlanner:
		m.WeekAnchor = dateutil.AddDays(m.WeekAnchor, 7*delta)
	case ViewCalendar:
		m.Calendar.FocusDate = dateutil.AddDays(m.Calendar.FocusDate, delta)
		m.Calendar.Cursor = 0
		m.refreshAgenda()
	}
}

func (m Model) renderDashboardView() string {
	courses := make([]views.DashboardCourseData, 0, len(m.Store.Courses))
	for i := range m.Store.Courses {
		c := &m.Store.Courses[i]
		data := views.DashboardCourseData{
			Label:     c.Label(),
			Title:     c.Title,
			OpenTasks: countOpenTasks(c),
		}
		if next, ok := upcoming.NextOccurrence(c, m.now()); ok {
			data.NextUp = formatOccurrence(next)
		}
		courses = append(courses, data)
	}
	return views.RenderDashboardPanel(views.DashboardPanelData{
		Username: m.Store.Meta.Username,
		Semester: m.Store.Meta.Semester,
		ListView: m.courseList.View(),
		Courses:  courses,
		NextUp:   m.nextUpLine(),
	})
}

func (m Model) renderPlannerView() string {
	c, ok := m.currentCourse()
	if !ok {
		return "planner:\n(no courses yet, try /add)"
	}
	weekKey := dateutil.LocalDateKey(m.WeekAnchor)
	days := make([]views.PlannerDayData, 0, 7)
	for offset := 0; offset < 7; offset++ {
		day := dateutil.AddDays(m.WeekAnchor, offset)
		lines := make([]string, 0)
		items, err := planItemsForDay(c, weekKey, offset)
		if err == nil {
			for _, it := range items {
				lines = append(lines, fmt.Sprintf("[%s] %s %s", strings.ToUpper(string(it.Type)), it.Due.Format("15:04"), it.Title))
			}
		}
		for _, ct := range c.ClassTimes {
			if ct.Day == day.Weekday() {
				lines = append(lines, fmt.Sprintf("[CLASS] %s-%s %s", ct.Start, ct.End, c.Label()))
			}
		}
		days = append(days, views.PlannerDayData{
			Date:  day.Format("Mon 2006-01-02"),
			Lines: lines,
		})
	}
	return views.RenderPlannerPanel(views.PlannerPanelData{
		CourseLabel:   c.Label(),
		WeekStart:     weekKey,
		Days:          days,
		ArchivedCount: len(c.ArchivedWeeks),
	})
}

func (m Model) renderCalendarView() string {
	items := make([]views.AgendaItemData, 0, len(m.Calendar.Items))
	for _, item := range m.Calendar.Items {
		items = append(items, views.AgendaItemData{
			ID:    item.ID,
			Title: item.Title,
			Date:  item.Date,
			Time:  item.Time,
			Kind:  item.Kind,
		})
	}
	var selected *views.AgendaItemData
	if m.Calendar.Cursor >= 0 && m.Calendar.Cursor < len(items) {
		sel := items[m.Calendar.Cursor]
		selected = &sel
	}
	return views.RenderCalendarPanel(views.CalendarPanelData{
		FocusDate: dateutil.LocalDateKey(m.Calendar.FocusDate),
		TableView: m.agendaTable.View(),
		Items:     items,
		Selected:  selected,
	})
}

func (m Model) renderNotesView() string {
	c, ok := m.currentCourse()
	if !ok {
		return "notes:\n(no courses yet)"
	}
	entries := make([]views.NoteEntryData, 0, len(c.Notes))
	for _, n := range c.Notes {
		entries = append(entries, views.NoteEntryData{ID: n.ID, Title: n.Title, Date: n.Date})
	}
	selectedID := ""
	markdown := ""
	if note, ok := m.currentNote(); ok {
		selectedID = note.ID
		markdown = m.noteViewport.View()
	}
	return views.RenderNotesPanel(views.NotesPanelData{
		CourseLabel:  c.Label(),
		Notes:        entries,
		SelectedID:   selectedID,
		MarkdownView: markdown,
	})
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Dashboard, Action: "switch to Dashboard"},
		{Key: m.Keys.Planner, Action: "switch to Planner"},
		{Key: m.Keys.Calendar, Action: "switch to Calendar"},
		{Key: m.Keys.Notes, Action: "switch to Notes"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewDashboard:
		return []KeyBinding{
			{Key: "j/k", Action: "move course cursor"},
		}
	case ViewPlanner:
		return []KeyBinding{
			{Key: "j/k", Action: "move course cursor"},
			{Key: "h/l", Action: "previous/next week"},
		}
	case ViewCalendar:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next day"},
			{Key: "j/k", Action: "move agenda cursor"},
		}
	case ViewNotes:
		return []KeyBinding{
			{Key: "j/k", Action: "move note cursor"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}

// nextUpLine resolves the soonest occurrence across every course.
func (m Model) nextUpLine() string {
	var best upcoming.Occurrence
	found := false
	for i := range m.Store.Courses {
		next, ok := upcoming.NextOccurrence(&m.Store.Courses[i], m.now())
		if !ok {
			continue
		}
		if !found || next.At.Before(best.At) {
			best = next
			found = true
		}
	}
	if !found {
		return ""
	}
	return formatOccurrence(best)
}

func formatOccurrence(o upcoming.Occurrence) string {
	when := o.At.Format("Mon Jan 2 15:04")
	if o.Kind == upcoming.KindClass {
		return fmt.Sprintf("%s class %s (%s-%s)", o.Title, when, o.Start, o.End)
	}
	return fmt.Sprintf("%s due %s", o.Title, when)
}

func countOpenTasks(c *model.Course) int {
	n := 0
	for _, t := range store.DistinctTasks(c) {
		if t.Status == model.TaskStatusOpen {
			n++
		}
	}
	return n
}

func countEntities(s model.Store) int {
	n := 0
	for _, c := range s.Courses {
		n += len(c.Tasks) + len(c.Notes)
		for _, p := range c.WeeklyPlans {
			n += len(p.Items)
		}
		for _, a := range c.ArchivedWeeks {
			n += len(a.Items)
		}
	}
	return n
}

func (m *Model) newID(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, m.nextID)
	m.nextID++
	return id
}

func saveStoreCmd(repo Repository, snapshot model.Store) tea.Cmd {
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		return StoreSavedMsg{Err: repo.Save(context.Background(), snapshot)}
	}
}
