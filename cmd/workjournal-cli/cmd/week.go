package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"workjournal/internal/application/commands"
)

var weekCmd = &cobra.Command{
	Use:   "week [date]",
	Short: "Show the week an entry date belongs to",
	Long: `Show the week-ending date a day is filed under with the configured
work week. The date defaults to today and also accepts yesterday and
tomorrow.

Examples:
  workjournal-cli week
  workjournal-cli week 2025-06-07`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j := GetJournal()
		result, err := commands.NewWeekEndingCommand(j.Repo, j.WorkWeek, dateArg(args)).Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		fmt.Printf("Week:  %s to %s\n", result.WeekStart, result.WeekEnding)
		fmt.Printf("Path:  %s\n", result.CanonicalPath)
		return nil
	},
}

var pathCmd = &cobra.Command{
	Use:   "path [date]",
	Short: "Show where an entry is written and where it may be read from",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j := GetJournal()
		result, err := commands.NewPathCommand(j.Repo, j.WorkWeek, dateArg(args)).Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("canonical  %s\n", result.Canonical)
		for _, p := range result.Legacy {
			fmt.Printf("legacy     %s\n", p)
		}
		if result.Existing != nil {
			fmt.Printf("existing   %s (%s)\n", result.Existing.Path, result.Existing.Layout)
			for _, p := range result.Existing.Shadowed {
				fmt.Printf("shadowed   %s\n", p)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(pathCmd)
}
