package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"workjournal/internal/adapters/tui/views"
	"workjournal/internal/application/commands"
	"workjournal/internal/domain"
	"workjournal/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewGoto
	ViewHelp
)

// App is the main TUI application model
type App struct {
	repo   ports.EntryRepository
	index  ports.EntryIndex
	sync   ports.Synchronizer
	cfg    domain.WorkWeekConfig
	editor ports.EditorOpener

	state   ViewState
	browser *views.BrowserModel
	goTo    *views.GotoModel
	help    *views.HelpModel
}

// NewApp creates a new TUI application. sync may be nil, which disables
// syncing and reindexing after edits.
func NewApp(repo ports.EntryRepository, index ports.EntryIndex, sync ports.Synchronizer, cfg domain.WorkWeekConfig, ed ports.EditorOpener) *App {
	return &App{
		repo:    repo,
		index:   index,
		sync:    sync,
		cfg:     cfg,
		editor:  ed,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(index, sync, cfg, repo.BasePath()),
		goTo:    views.NewGotoModel(cfg, repo.BasePath()),
		help:    views.NewHelpModel(cfg),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

type entryReadyMsg struct {
	result *commands.EditEntryResult
}

type entryFailedMsg struct {
	err error
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.browser.SetSize(msg.Width, msg.Height)
		a.goTo.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SwitchToGotoMsg:
		a.state = ViewGoto
		return a, a.goTo.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	case views.OpenEntryMsg:
		a.state = ViewBrowser
		return a, a.prepareEntry(msg.Date)

	case entryReadyMsg:
		return a, a.openEditor(msg.result.Path)

	case entryFailedMsg:
		a.browser.SetMessage(msg.err.Error(), true)
		return a, nil

	case views.EntryEditedMsg:
		switch {
		case msg.Err != nil:
			a.browser.SetMessage(msg.Err.Error(), true)
		case msg.Record != nil:
			a.browser.SetMessage(fmt.Sprintf("Saved %s (%d words)", msg.Record.Date, msg.Record.WordCount), false)
		default:
			a.browser.SetMessage("Saved "+msg.Path, false)
		}
		return a, a.browser.Reload()

	case views.SyncFinishedMsg:
		// Always lands in the browser, even if another view is showing
		_, cmd := a.browser.Update(msg)
		return a, cmd
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewGoto:
		_, cmd = a.goTo.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

func (a *App) prepareEntry(date string) tea.Cmd {
	return func() tea.Msg {
		result, err := commands.NewEditEntryCommand(a.repo, a.index, a.cfg, date).Execute(context.Background())
		if err != nil {
			return entryFailedMsg{err}
		}
		return entryReadyMsg{result}
	}
}

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		return func() tea.Msg {
			return entryFailedMsg{fmt.Errorf("no editor configured; entry is at %s", path)}
		}
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return entryFailedMsg{err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return views.EntryEditedMsg{Path: path, Err: err}
		}
		return a.reindex(path)
	})
}

func (a *App) reindex(path string) views.EntryEditedMsg {
	if a.sync == nil {
		return views.EntryEditedMsg{Path: path}
	}
	rec, err := a.sync.IndexFile(context.Background(), path, a.cfg)
	if err != nil {
		return views.EntryEditedMsg{Path: path, Err: fmt.Errorf("saved, but the index was not updated: %w", err)}
	}
	return views.EntryEditedMsg{Path: path, Record: rec}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewGoto:
		return a.goTo.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
