package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"workjournal/internal/application/commands"
)

var syncVerbose bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Bring the index up to date with the journal directory",
	Long: `Walk the journal directory and index every entry file. Files that
cannot be read are skipped and listed; the rest are still indexed. Entries
in older layouts keep the week they were filed under. Interrupting a sync
keeps the entries indexed so far.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		j := GetJournal()
		result, err := commands.NewSyncCommand(j.Sync, j.WorkWeek, j.BasePath()).Execute(cmd.Context())
		if result == nil {
			return err
		}

		report := result.Report
		fmt.Println(result.Message)
		if report.Mismatched > 0 {
			fmt.Printf("%d entries are filed under a week the current work week would not pick; they were left in place.\n", report.Mismatched)
		}

		if len(report.SkippedWithError) > 0 {
			rows := make([][]string, 0, len(report.SkippedWithError))
			for _, s := range report.SkippedWithError {
				detail := ""
				if s.Err != nil && syncVerbose {
					detail = s.Err.Error()
				}
				rows = append(rows, []string{s.Path, s.Reason, detail})
			}
			fmt.Println(renderTable([]string{"Skipped", "Reason", "Detail"}, rows, nil))
		}

		if syncVerbose {
			for _, a := range report.Ambiguities {
				fmt.Printf("%s: indexed %s, ignored %s\n", a.Date, a.Chosen, strings.Join(a.Ignored, ", "))
			}
		} else if n := len(report.Ambiguities); n > 0 {
			fmt.Printf("%d dates exist in more than one place; run with --verbose to list them.\n", n)
		}

		if report.Canceled {
			return errors.New("sync interrupted; run it again to finish")
		}
		return err
	},
}

func init() {
	syncCmd.Flags().BoolVarP(&syncVerbose, "verbose", "v", false, "show error details and duplicate entries")
	rootCmd.AddCommand(syncCmd)
}
