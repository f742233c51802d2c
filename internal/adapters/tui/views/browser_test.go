package views

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"workjournal/internal/domain"
)

var mondayFriday = domain.MustResolve(domain.RawWorkWeek{Preset: "monday_friday"})

type fakeIndex struct {
	weeks   []domain.WeekSummary
	entries map[domain.Date][]domain.JournalEntryRecord
}

func (f *fakeIndex) Open(string, string) error { return nil }
func (f *fakeIndex) Close() error              { return nil }

func (f *fakeIndex) GetEntry(context.Context, domain.Date) (*domain.JournalEntryRecord, error) {
	return nil, nil
}

func (f *fakeIndex) ListWeeks(context.Context) ([]domain.WeekSummary, error) {
	return f.weeks, nil
}

func (f *fakeIndex) ListEntries(_ context.Context, week domain.Date) ([]domain.JournalEntryRecord, error) {
	return f.entries[week], nil
}

const base = "/journal"

func newTestBrowser(t *testing.T) (*BrowserModel, *[]string) {
	t.Helper()
	june6 := domain.NewDate(2025, 6, 6)
	may30 := domain.NewDate(2025, 5, 30)

	index := &fakeIndex{
		weeks: []domain.WeekSummary{
			{WeekEnding: june6, Entries: 2, Words: 7},
			{WeekEnding: may30, Entries: 1, Words: 3},
		},
		entries: map[domain.Date][]domain.JournalEntryRecord{
			june6: {
				{Date: domain.NewDate(2025, 6, 2), FilePath: domain.CanonicalPath(domain.NewDate(2025, 6, 2), mondayFriday, base), WeekEndingDate: june6, WordCount: 4, HasContent: true},
				{Date: domain.NewDate(2025, 6, 3), FilePath: domain.CanonicalPath(domain.NewDate(2025, 6, 3), mondayFriday, base), WeekEndingDate: june6, WordCount: 3, HasContent: true},
			},
		},
	}

	m := NewBrowserModel(index, nil, mondayFriday, base)
	m.now = func() time.Time { return time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC) }
	var copied []string
	m.copyText = func(s string) error {
		copied = append(copied, s)
		return nil
	}

	deliver(m, m.Init())
	return m, &copied
}

// deliver runs cmd synchronously and feeds its messages back into the model
func deliver(m *BrowserModel, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			deliver(m, c)
		}
		return nil
	}
	switch msg.(type) {
	case weeksLoadedMsg, entriesLoadedMsg, errMsg:
		_, next := m.Update(msg)
		return deliver(m, next)
	}
	return func() tea.Msg { return msg }
}

func press(m *BrowserModel, keys string) tea.Cmd {
	var msg tea.KeyMsg
	switch keys {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	_, cmd := m.Update(msg)
	return deliver(m, cmd)
}

func TestBrowser_ListsWeeks(t *testing.T) {
	m, _ := newTestBrowser(t)

	if len(m.rows) != 2 {
		t.Fatalf("expected 2 week rows, got %d", len(m.rows))
	}
	view := m.View()
	if !strings.Contains(view, "Week ending 2025-06-06") || !strings.Contains(view, "Week ending 2025-05-30") {
		t.Errorf("weeks missing from view:\n%s", view)
	}
}

func TestBrowser_ExpandAndCollapse(t *testing.T) {
	m, _ := newTestBrowser(t)

	press(m, "l")
	if len(m.rows) != 4 {
		t.Fatalf("expected the first week to expand into 2 entries, got %d rows", len(m.rows))
	}
	if m.rows[1].entry == nil || m.rows[1].entry.Date != domain.NewDate(2025, 6, 2) {
		t.Errorf("unexpected first entry row: %+v", m.rows[1])
	}

	press(m, "j")
	press(m, "h") // back to the week header
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want the week header", m.cursor)
	}
	press(m, "h")
	if len(m.rows) != 2 {
		t.Errorf("expected collapse back to 2 rows, got %d", len(m.rows))
	}
}

func TestBrowser_EnterOnEntryOpensIt(t *testing.T) {
	m, _ := newTestBrowser(t)
	press(m, "l")
	press(m, "j")

	cmd := press(m, "enter")
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(OpenEntryMsg)
	if !ok || msg.Date != "2025-06-02" {
		t.Errorf("got %#v, want OpenEntryMsg for 2025-06-02", msg)
	}
}

func TestBrowser_TodayOpensToday(t *testing.T) {
	m, _ := newTestBrowser(t)

	cmd := press(m, "t")
	if msg, ok := cmd().(OpenEntryMsg); !ok || msg.Date != "today" {
		t.Errorf("got %#v", msg)
	}
}

func TestBrowser_CopyPath(t *testing.T) {
	m, copied := newTestBrowser(t)

	press(m, "y")
	press(m, "l")
	press(m, "j")
	press(m, "y")

	want := []string{
		filepath.Join(base, "entries_2025", "entries_2025-06", "week_ending_2025-06-06"),
		filepath.Join(base, "entries_2025", "entries_2025-06", "week_ending_2025-06-06", "entry_2025-06-02.txt"),
	}
	if len(*copied) != 2 || (*copied)[0] != want[0] || (*copied)[1] != want[1] {
		t.Errorf("copied = %v, want %v", *copied, want)
	}
}

func TestBrowser_ScrollsWithCursor(t *testing.T) {
	m, _ := newTestBrowser(t)
	m.SetSize(80, 11) // one visible row

	press(m, "j")
	if m.offset != 1 {
		t.Errorf("offset = %d, want 1", m.offset)
	}
	if strings.Contains(m.View(), "2025-06-06") {
		t.Error("scrolled-off week should not be drawn")
	}
}

func TestBrowser_TagsNonCanonicalEntries(t *testing.T) {
	m, _ := newTestBrowser(t)
	legacy := domain.JournalEntryRecord{
		Date:     domain.NewDate(2025, 6, 4),
		FilePath: filepath.Join(base, "entries_2025", "entries_2025-06", "2025-06-04", "entry_2025-06-04.txt"),
	}

	line := m.renderRow(browserRow{entry: &legacy}, false, domain.Date{})
	if !strings.Contains(line, "[legacy]") {
		t.Errorf("expected a legacy tag in %q", line)
	}
}
