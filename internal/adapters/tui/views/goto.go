package views

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"workjournal/internal/adapters/tui/styles"
	"workjournal/internal/application"
	"workjournal/internal/domain"
)

// GotoKeyMap defines key bindings for the date prompt
type GotoKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

var GotoKeys = GotoKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit entry"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// GotoModel prompts for a date and previews the bucket it lands in
type GotoModel struct {
	ViewState

	cfg      domain.WorkWeekConfig
	basePath string
	now      func() time.Time
	input    textinput.Model
}

// NewGotoModel creates a new date prompt
func NewGotoModel(cfg domain.WorkWeekConfig, basePath string) *GotoModel {
	input := textinput.New()
	input.Placeholder = "YYYY-MM-DD, today, yesterday or tomorrow"
	input.CharLimit = 10
	input.Width = 40

	return &GotoModel{
		cfg:      cfg,
		basePath: basePath,
		now:      time.Now,
		input:    input,
	}
}

// Init focuses the prompt
func (m *GotoModel) Init() tea.Cmd {
	m.input.Reset()
	m.ClearMessage()
	m.input.Focus()
	return textinput.Blink
}

// Update handles messages for the date prompt
func (m *GotoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, GotoKeys.Cancel):
			m.input.Blur()
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }

		case key.Matches(msg, GotoKeys.Submit):
			date, err := m.parse()
			if err != nil {
				m.SetMessage(err.Error(), true)
				return m, nil
			}
			m.input.Blur()
			return m, openEntry(date.String())
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ClearMessage()
	return m, cmd
}

func (m *GotoModel) parse() (domain.Date, error) {
	return application.ParseDateArg("date", m.input.Value(), m.cfg, m.now())
}

// Preview describes where the typed date would be written, or why it
// cannot be parsed yet
func (m *GotoModel) Preview() []string {
	date, err := m.parse()
	if err != nil {
		return nil
	}
	weekEnding, assignment := domain.Assign(date, m.cfg)
	return []string{
		field("Date", fmt.Sprintf("%s (%s)", date, date.Weekday())),
		field("Week ending", fmt.Sprintf("%s (%s)", weekEnding, assignment)),
		field("Path", domain.CanonicalPath(date, m.cfg, m.basePath)),
	}
}

// View renders the date prompt
func (m *GotoModel) View() string {
	v := newScreen("Go to date", "work week "+m.cfg.String())
	v.line(styles.InputFocused.Render(m.input.View()))
	v.blank()

	if preview := m.Preview(); preview != nil {
		for _, line := range preview {
			v.line(line)
		}
	} else {
		v.muted("Type a date to see its week bucket.")
	}

	return v.finish(m.ViewState, GotoKeys.Submit, GotoKeys.Cancel)
}
