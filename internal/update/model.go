package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"myguide/internal/model"
	"myguide/internal/reminder"
)

type View string

const (
	ViewDashboard View = "Dashboard"
	ViewPlanner   View = "Planner"
	ViewCalendar  View = "Calendar"
	ViewNotes     View = "Notes"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Dashboard string
	Planner   string
	Calendar  string
	Notes     string
	Help      string
	Quit      string
}

// Repository is the persistence seam. The TUI saves the whole store after
// every mutation; it never writes partial objects.
type Repository interface {
	Load(ctx context.Context) (model.Store, error)
	Save(ctx context.Context, s model.Store) error
}

type AgendaItem struct {
	ID    string
	Title string
	Date  string
	Time  string
	Kind  string
}

type CalendarState struct {
	FocusDate time.Time
	Items     []AgendaItem
	Cursor    int
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	Store        model.Store
	CurrentView  View
	CourseCursor int
	NoteCursor   int
	// WeekAnchor is the noon instant at the start of the planner's focused
	// week.
	WeekAnchor time.Time
	Calendar   CalendarState
	Palette    CommandPaletteState

	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	repo      Repository
	scheduler *reminder.Scheduler
	now       func() time.Time
	nextID    int

	courseList   list.Model
	agendaTable  table.Model
	commandInput textinput.Model
	noteViewport viewport.Model
	helpModel    help.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type KeyBinding struct {
	Key    string
	Action string
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type StoreSavedMsg struct {
	Err error
}
