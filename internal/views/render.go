package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// AppData is the fully rendered content of one frame. Main carries the
// active screen, Side the context panel next to it; StatusIsError picks the
// status line's styling.
type AppData struct {
	Header        string
	Main          string
	Side          string
	StatusLine    string
	StatusIsError bool
	Footer        string
	Notification  string
}

var (
	headerStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusErrorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	mainPanelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1).Width(62)
	sidePanelStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1).Width(44)
	notificationStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("215")).Padding(0, 1)
	footerStyle       = lipgloss.NewStyle().Faint(true)
)

// RenderApp lays out a frame: header, the main/side panel pair, status line,
// then an optional notification box and footer.
func RenderApp(data AppData) string {
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		mainPanelStyle.Render(data.Main),
		sidePanelStyle.Render(data.Side),
	)

	status := statusStyle.Render(data.StatusLine)
	if data.StatusIsError {
		status = statusErrorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Render(data.Header),
		row,
		status,
	}
	if data.Notification != "" {
		lines = append(lines, notificationStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders note markdown wrapped to the main panel's inner
// width. On any renderer failure the raw markdown is shown as-is.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(58))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
