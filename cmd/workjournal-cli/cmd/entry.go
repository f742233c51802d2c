package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"workjournal/internal/adapters/editor"
	"workjournal/internal/application/commands"
)

var readCmd = &cobra.Command{
	Use:   "read [date]",
	Short: "Print the entry for a date",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j := GetJournal()
		result, err := commands.NewReadEntryCommand(j.Repo, j.Index, j.WorkWeek, dateArg(args)).Execute(cmd.Context())
		if err != nil {
			return err
		}

		if result.Entry.Ambiguous() {
			fmt.Fprintf(os.Stderr, "note: other copies ignored: %v\n", result.Entry.Shadowed)
		}
		_, err = os.Stdout.Write(result.Entry.Content)
		return err
	},
}

var (
	writeMessage string
	writeAppend  bool
)

var writeCmd = &cobra.Command{
	Use:   "write [date]",
	Short: "Write the entry for a date",
	Long: `Write the entry for a date to its week folder. The text comes from
--message, or from standard input when --message is not given.

Examples:
  workjournal-cli write -m "Reviewed the release checklist"
  workjournal-cli write 2025-06-02 --append < notes.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := []byte(writeMessage)
		if !cmd.Flags().Changed("message") {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			content = data
		}

		j := GetJournal()
		write := commands.NewWriteEntryCommand(j.Repo, j.Sync, j.WorkWeek, dateArg(args), content)
		write.Append = writeAppend
		result, err := write.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [date]",
	Short: "Open the entry for a date in an editor",
	Long: `Open the entry for a date in the configured editor, creating an empty
entry in its week folder first if none exists. Entries in older layouts are
edited where they are. The index is updated when the editor exits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j := GetJournal()
		result, err := commands.NewEditEntryCommand(j.Repo, j.Index, j.WorkWeek, dateArg(args)).Execute(cmd.Context())
		if err != nil {
			return err
		}

		if err := editor.NewOpener(j.Config.Editor.Command).OpenFile(result.Path); err != nil {
			return err
		}

		rec, err := j.Sync.IndexFile(cmd.Context(), result.Path, j.WorkWeek)
		if err != nil {
			return fmt.Errorf("saved %s, but the index was not updated: %w", result.Path, err)
		}
		fmt.Printf("Saved %s (%d words)\n", result.Path, rec.WordCount)
		return nil
	},
}

func init() {
	writeCmd.Flags().StringVarP(&writeMessage, "message", "m", "", "entry text")
	writeCmd.Flags().BoolVarP(&writeAppend, "append", "a", false, "append to the existing entry")

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(editCmd)
}
