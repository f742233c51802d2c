package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"workjournal/internal/application/commands"
	"workjournal/internal/domain"
)

var listCmd = &cobra.Command{
	Use:   "list [weeks|entries] [week-ending]",
	Short: "List indexed weeks or entries",
	Long: `List what the index knows about. Run sync first to pick up files
written outside workjournal.

Examples:
  workjournal-cli list weeks
  workjournal-cli list entries
  workjournal-cli list entries 2025-06-06`,
}

var listWeeksCmd = &cobra.Command{
	Use:   "weeks",
	Short: "List week folders, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		j := GetJournal()
		weeks, err := commands.NewListWeeksCommand(j.Index).Execute(cmd.Context())
		if err != nil {
			return err
		}
		if len(weeks) == 0 {
			fmt.Println("No weeks indexed.")
			return nil
		}

		rows := make([][]string, 0, len(weeks))
		for _, w := range weeks {
			rows = append(rows, []string{
				w.WeekEnding.String(),
				domain.WeekStart(w.WeekEnding, j.WorkWeek).String(),
				strconv.Itoa(w.Entries),
				strconv.Itoa(w.Words),
			})
		}
		fmt.Println(renderTable(
			[]string{"Week ending", "Starts", "Entries", "Words"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
		))
		return nil
	},
}

var listEntriesCmd = &cobra.Command{
	Use:   "entries [week-ending]",
	Short: "List entries, optionally only those of one week",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j := GetJournal()
		entries, err := commands.NewListEntriesCommand(j.Index, dateArg(args)).Execute(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No entries indexed.")
			return nil
		}

		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			layout := "?"
			if loc, err := domain.LocateEntry(e.FilePath, j.WorkWeek); err == nil {
				layout = loc.Layout.String()
			}
			rows = append(rows, []string{
				e.Date.String(),
				e.Date.Weekday().String(),
				e.WeekEndingDate.String(),
				strconv.Itoa(e.WordCount),
				layout,
				e.FilePath,
			})
		}
		fmt.Println(renderTable(
			[]string{"Date", "Day", "Week ending", "Words", "Layout", "Path"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
		))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listWeeksCmd)
	listCmd.AddCommand(listEntriesCmd)
}
