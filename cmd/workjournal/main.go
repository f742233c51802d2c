package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"workjournal/internal/adapters/editor"
	"workjournal/internal/adapters/tui"
	"workjournal/internal/config"
	"workjournal/internal/journal"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	flag.Parse()

	if err := run(*configFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI; logs go to a file
	logger, err := journal.NewLogger(cfg, "workjournal", true)
	if err != nil {
		return err
	}

	j, err := journal.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer j.Close()

	app := tui.NewApp(j.Repo, j.Index, j.Sync, j.WorkWeek, editor.NewOpener(cfg.Editor.Command))

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
