package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"workjournal/internal/application"
	"workjournal/internal/config"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Manage the configuration file",
	Annotations: map[string]string{skipJournal: "true"},
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a sample configuration file",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipJournal: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			if path, err = config.DefaultConfigPath(); err != nil {
				return err
			}
		} else {
			var err error
			if path, err = config.ExpandPath(path); err != nil {
				return err
			}
		}

		if err := config.CreateSample(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective configuration and work week",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipJournal: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, exists, err := config.Load(configPath)
		if err != nil {
			return err
		}

		source := path
		if !exists {
			source = "defaults (no file at " + path + ")"
		}
		fmt.Printf("# source: %s\n", source)

		workWeek, corrections, err := cfg.ResolveWorkWeek()
		if err != nil {
			return err
		}
		fmt.Printf("# work week: %s to %s, %s\n", workWeek.StartDay, workWeek.EndDay, workWeek.Timezone)
		for _, line := range application.DescribeCorrections(corrections) {
			fmt.Printf("# note: %s\n", line)
		}

		encoded, err := cfg.Encode()
		if err != nil {
			return err
		}
		fmt.Print(encoded)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
