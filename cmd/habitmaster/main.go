package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/habitmaster/core/cmd/habitmaster/commands"
)

func main() {
	opts := &commands.Options{}

	rootCmd := &cobra.Command{
		Use:           "habitmaster",
		Short:         "Track daily habits and completion streaks",
		Long:          `habitmaster records named habits, marks daily completions and reports current and longest streaks. Data lives in a single JSON file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunMenu(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default habitmaster.yaml in . or $HOME/.habitmaster)")
	rootCmd.PersistentFlags().StringVar(&opts.DataFile, "data-file", "", "habit data file (overrides storage.path)")

	// Add commands
	rootCmd.AddCommand(commands.NewMenuCommand(opts))
	rootCmd.AddCommand(commands.NewAddCommand(opts))
	rootCmd.AddCommand(commands.NewMarkCommand(opts))
	rootCmd.AddCommand(commands.NewListCommand(opts))
	rootCmd.AddCommand(commands.NewStreaksCommand(opts))
	rootCmd.AddCommand(commands.NewServeCommand(opts))
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
