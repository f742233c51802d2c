package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"workjournal/internal/adapters/tui/styles"
	"workjournal/internal/domain"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
	cfg domain.WorkWeekConfig
}

// NewHelpModel creates a new help view model
func NewHelpModel(cfg domain.WorkWeekConfig) *HelpModel {
	return &HelpModel{cfg: cfg}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, HelpKeys.Close) {
		return m, func() tea.Msg { return SwitchToBrowserMsg{} }
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	v := newScreen("Work Journal Help", "")

	v.section("Navigation")
	v.line(helpLine("j / k / ↑ / ↓", "Move up/down"))
	v.line(helpLine("h / ←", "Collapse week / go to week"))
	v.line(helpLine("l / → / Enter", "Expand week"))
	v.blank()

	v.section("Entries")
	v.line(helpLine("Enter", "Edit the selected entry"))
	v.line(helpLine("t", "Edit today's entry"))
	v.line(helpLine("g / /", "Go to a date"))
	v.line(helpLine("y", "Copy the selected path"))
	v.line(helpLine("s", "Sync the index with the journal directory"))
	v.line(helpLine("r", "Reload"))
	v.blank()

	v.section("Work week")
	start, end := m.cfg.StartDay, m.cfg.EndDay
	v.muted("  " + start.String() + " to " + end.String() + ", " + m.cfg.Timezone)
	if m.cfg.Length() < 7 {
		v.muted("  " + end.Next().String() + " joins the week that just ended")
	}
	if m.cfg.Length() < 6 {
		v.muted("  Other off days join the following week")
	}
	v.blank()

	v.section("Layout tags")
	v.line("  " + styles.LayoutTag(domain.LayoutReconfigured) + styles.HelpDesc.Render(" bucket from an earlier work week"))
	v.line("  " + styles.LayoutTag(domain.LayoutLegacy) + styles.HelpDesc.Render(" old one-folder-per-day layout"))

	return v.finish(m.ViewState, HelpKeys.Close)
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc)
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
