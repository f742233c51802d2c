package views

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"workjournal/internal/adapters/tui/styles"
	"workjournal/internal/application/commands"
	"workjournal/internal/domain"
	"workjournal/internal/ports"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Today  key.Binding
	Goto   key.Binding
	Copy   key.Binding
	Sync   key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle/edit"),
	),
	Today: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "today"),
	),
	Goto: key.NewBinding(
		key.WithKeys("g", "/"),
		key.WithHelp("g", "go to date"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy path"),
	),
	Sync: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sync"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// browserRow is a week header, or one of its entries when entry is set
type browserRow struct {
	week  domain.WeekSummary
	entry *domain.JournalEntryRecord
}

// BrowserModel lists indexed weeks and expands them into their entries
type BrowserModel struct {
	ViewState

	index    ports.EntryIndex
	sync     ports.Synchronizer
	cfg      domain.WorkWeekConfig
	basePath string

	now      func() time.Time
	copyText func(string) error

	weeks    []domain.WeekSummary
	entries  map[domain.Date][]domain.JournalEntryRecord
	expanded map[domain.Date]bool
	rows     []browserRow
	cursor   int
	offset   int
	loaded   bool
	syncing  bool
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(index ports.EntryIndex, sync ports.Synchronizer, cfg domain.WorkWeekConfig, basePath string) *BrowserModel {
	return &BrowserModel{
		index:    index,
		sync:     sync,
		cfg:      cfg,
		basePath: basePath,
		now:      time.Now,
		copyText: clipboard.WriteAll,
		entries:  make(map[domain.Date][]domain.JournalEntryRecord),
		expanded: make(map[domain.Date]bool),
	}
}

type weeksLoadedMsg struct {
	weeks []domain.WeekSummary
}

type entriesLoadedMsg struct {
	week    domain.Date
	entries []domain.JournalEntryRecord
}

type errMsg struct {
	err error
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadWeeks
}

func (m *BrowserModel) loadWeeks() tea.Msg {
	weeks, err := commands.NewListWeeksCommand(m.index).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return weeksLoadedMsg{weeks}
}

func (m *BrowserModel) loadEntries(week domain.Date) tea.Cmd {
	return func() tea.Msg {
		entries, err := commands.NewListEntriesCommand(m.index, week.String()).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return entriesLoadedMsg{week: week, entries: entries}
	}
}

func (m *BrowserModel) runSync() tea.Msg {
	result, err := commands.NewSyncCommand(m.sync, m.cfg, m.basePath).Execute(context.Background())
	if err != nil {
		return SyncFinishedMsg{Err: err}
	}
	return SyncFinishedMsg{Summary: result.Message}
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case weeksLoadedMsg:
		m.weeks = msg.weeks
		m.loaded = true
		m.refreshRows()
		var cmds []tea.Cmd
		for week := range m.expanded {
			cmds = append(cmds, m.loadEntries(week))
		}
		return m, tea.Batch(cmds...)

	case entriesLoadedMsg:
		m.entries[msg.week] = msg.entries
		m.refreshRows()
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case SyncFinishedMsg:
		m.syncing = false
		if msg.Err != nil {
			m.SetMessage(msg.Err.Error(), true)
			return m, nil
		}
		m.SetMessage(msg.Summary, false)
		return m, m.Reload()

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, BrowserKeys.Down):
		m.moveCursor(1)

	case key.Matches(msg, BrowserKeys.Left):
		row := m.selectedRow()
		if row == nil {
			return nil
		}
		week := row.week.WeekEnding
		if row.entry != nil {
			// Move to the week header
			for i, r := range m.rows {
				if r.entry == nil && r.week.WeekEnding == week {
					m.setCursor(i)
					break
				}
			}
			return nil
		}
		if m.expanded[week] {
			delete(m.expanded, week)
			m.refreshRows()
		}

	case key.Matches(msg, BrowserKeys.Right), key.Matches(msg, BrowserKeys.Enter):
		row := m.selectedRow()
		if row == nil {
			return nil
		}
		if row.entry != nil {
			if key.Matches(msg, BrowserKeys.Enter) {
				return openEntry(row.entry.Date.String())
			}
			return nil
		}
		week := row.week.WeekEnding
		if !m.expanded[week] {
			m.expanded[week] = true
			return m.loadEntries(week)
		}
		if key.Matches(msg, BrowserKeys.Enter) {
			delete(m.expanded, week)
			m.refreshRows()
		}

	case key.Matches(msg, BrowserKeys.Today):
		return openEntry("today")

	case key.Matches(msg, BrowserKeys.Goto):
		return func() tea.Msg { return SwitchToGotoMsg{} }

	case key.Matches(msg, BrowserKeys.Copy):
		if path := m.selectedPath(); path != "" {
			if err := m.copyText(path); err != nil {
				m.SetMessage(fmt.Sprintf("copy failed: %v", err), true)
			} else {
				m.SetMessage("Copied "+path, false)
			}
		}

	case key.Matches(msg, BrowserKeys.Sync):
		if m.sync == nil || m.syncing {
			return nil
		}
		m.syncing = true
		m.SetMessage("Syncing...", false)
		return m.runSync

	case key.Matches(msg, BrowserKeys.Reload):
		return m.Reload()

	case key.Matches(msg, BrowserKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }
	}
	return nil
}

func openEntry(date string) tea.Cmd {
	return func() tea.Msg { return OpenEntryMsg{Date: date} }
}

// selectedPath is the entry file under the cursor, or the bucket directory
// when a week header is selected
func (m *BrowserModel) selectedPath() string {
	row := m.selectedRow()
	switch {
	case row == nil:
		return ""
	case row.entry != nil:
		return row.entry.FilePath
	default:
		return domain.BucketDir(row.week.WeekEnding, m.basePath)
	}
}

func (m *BrowserModel) selectedRow() *browserRow {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return &m.rows[m.cursor]
	}
	return nil
}

func (m *BrowserModel) refreshRows() {
	m.rows = m.rows[:0]
	for _, w := range m.weeks {
		m.rows = append(m.rows, browserRow{week: w})
		if !m.expanded[w.WeekEnding] {
			continue
		}
		for i := range m.entries[w.WeekEnding] {
			m.rows = append(m.rows, browserRow{week: w, entry: &m.entries[w.WeekEnding][i]})
		}
	}
	m.setCursor(m.cursor)
}

func (m *BrowserModel) moveCursor(delta int) {
	m.setCursor(m.cursor + delta)
}

// setCursor clamps pos to the rows and scrolls it into view
func (m *BrowserModel) setCursor(pos int) {
	if pos >= len(m.rows) {
		pos = len(m.rows) - 1
	}
	if pos < 0 {
		pos = 0
	}
	m.cursor = pos

	visible := m.visibleRows()
	if visible <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

// visibleRows is how many rows fit between the title and the help line;
// zero means the height is unknown and everything is drawn
func (m *BrowserModel) visibleRows() int {
	if m.Height == 0 {
		return 0
	}
	return max(m.Height-10, 1)
}

// View renders the browser
func (m *BrowserModel) View() string {
	if !m.loaded {
		return "Loading..."
	}

	current := domain.WeekEndingDate(m.now(), m.cfg)
	v := newScreen("Work Journal", fmt.Sprintf("%s  •  work week %s", m.basePath, m.cfg))

	if len(m.rows) == 0 {
		v.muted("No indexed weeks. Press s to sync or t to write today's entry.")
	}

	end := len(m.rows)
	if visible := m.visibleRows(); visible > 0 {
		end = min(m.offset+visible, len(m.rows))
	}
	for i := m.offset; i < end; i++ {
		v.line(m.renderRow(m.rows[i], i == m.cursor, current))
	}

	return v.finish(m.ViewState,
		BrowserKeys.Down, BrowserKeys.Right, BrowserKeys.Today, BrowserKeys.Goto, BrowserKeys.Sync, BrowserKeys.Help, BrowserKeys.Quit)
}

func (m *BrowserModel) renderRow(row browserRow, selected bool, current domain.Date) string {
	if row.entry == nil {
		prefix := styles.TreeCollapsed
		if m.expanded[row.week.WeekEnding] {
			prefix = styles.TreeExpanded
		}
		text := fmt.Sprintf("Week ending %s  (%s to %s)  %d entries, %d words",
			row.week.WeekEnding,
			domain.WeekStart(row.week.WeekEnding, m.cfg),
			row.week.WeekEnding,
			row.week.Entries,
			row.week.Words,
		)
		style := styles.WeekRow
		if row.week.WeekEnding == current {
			style = styles.WeekCurrent
		}
		if selected {
			style = styles.RowSelected
		}
		return styles.TreeBranch.Render(prefix) + style.Render(text)
	}

	rec := row.entry
	text := fmt.Sprintf("%s %s  %d words", rec.Date, rec.Date.Weekday().String()[:3], rec.WordCount)
	style := styles.EntryRow
	if !rec.HasContent {
		style = styles.EntryEmpty
	}
	if selected {
		style = styles.RowSelected
	}

	line := "  " + styles.TreeBranch.Render(styles.TreeLeaf) + style.Render(text)
	if loc, err := domain.LocateEntry(rec.FilePath, m.cfg); err == nil && loc.Layout != domain.LayoutCanonical {
		line += " " + styles.LayoutTag(loc.Layout)
	}
	return line
}

// Reload reloads the week list from the index, keeping expanded weeks open
func (m *BrowserModel) Reload() tea.Cmd {
	m.loaded = false
	return m.loadWeeks
}
