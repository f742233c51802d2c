package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"workjournal/internal/adapters/tui/styles"
	"workjournal/internal/domain"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Messages for view switching
type (
	SwitchToGotoMsg    struct{}
	SwitchToHelpMsg    struct{}
	SwitchToBrowserMsg struct{}
)

// OpenEntryMsg asks the app to open the entry for Date in the editor.
// Date accepts anything the date argument parser does, including "today".
type OpenEntryMsg struct {
	Date string
}

// EntryEditedMsg is sent once the editor exits
type EntryEditedMsg struct {
	Path   string
	Record *domain.JournalEntryRecord
	Err    error
}

// SyncFinishedMsg carries the result of a sync pass started from the browser
type SyncFinishedMsg struct {
	Summary string
	Err     error
}

// screen accumulates the lines of one view. finish appends the status
// message and key help shared by every view.
type screen struct {
	b strings.Builder
}

func newScreen(title, subtitle string) *screen {
	s := &screen{}
	s.line(styles.Title.Render(title))
	if subtitle != "" {
		s.line(styles.Subtitle.Render(subtitle))
	}
	s.blank()
	return s
}

func (s *screen) line(text string) {
	s.b.WriteString(text)
	s.b.WriteByte('\n')
}

func (s *screen) blank() {
	s.b.WriteByte('\n')
}

func (s *screen) muted(text string) {
	s.line(styles.MutedText.Render(text))
}

func (s *screen) section(name string) {
	s.line(styles.InputLabel.Render(name))
}

func (s *screen) finish(state ViewState, bindings ...key.Binding) string {
	if state.Message != "" {
		style := styles.Success
		if state.MessageErr {
			style = styles.ErrorMsg
		}
		s.blank()
		s.line(style.Render(state.Message))
	}

	keys := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		keys = append(keys, styles.HelpKey.Render(h.Key)+" "+styles.HelpDesc.Render(h.Desc))
	}
	s.blank()
	s.b.WriteString(strings.Join(keys, styles.HelpSeparator.String()))
	return styles.App.Render(s.b.String())
}

// field renders "label: value" for the date preview
func field(label, value string) string {
	return styles.InputLabel.Render(label+":") + " " + value
}
