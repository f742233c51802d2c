package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"workjournal/internal/config"
	"workjournal/internal/journal"
)

// skipJournal marks commands that must run without opening the journal
const skipJournal = "skip-journal"

var (
	configPath string
	current    *journal.Journal
)

var rootCmd = &cobra.Command{
	Use:   "workjournal-cli",
	Short: "CLI for a work journal organized by week",
	Long: `workjournal-cli manages a directory of daily work-journal entries.

Entries are grouped into one folder per work week, named after the last
day of that week. Days outside the work week are assigned to the nearest
week. Entries kept in the older one-folder-per-day layout stay readable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Annotations[skipJournal] != "" {
			return nil
		}

		cfg, _, _, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err := journal.NewLogger(cfg, "workjournal-cli", false)
		if err != nil {
			return err
		}
		j, err := journal.Open(cfg, logger)
		if err != nil {
			return err
		}
		for _, c := range j.Corrections {
			fmt.Fprintf(os.Stderr, "note: work week %s\n", c)
		}
		current = j
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current == nil {
			return nil
		}
		err := current.Close()
		current = nil
		return err
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if current != nil {
			current.Close()
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file path")
}

// GetJournal returns the journal opened for the running command
func GetJournal() *journal.Journal {
	return current
}

func dateArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
