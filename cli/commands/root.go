// Package commands implements the schemaflow CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/schemaflow/cli/internal/version"
	"github.com/satishbabariya/schemaflow/internal/debug"
)

// Execute is the main entry point for the CLI.
func Execute() error {
	var debugFlag bool

	rootCmd := &cobra.Command{
		Use:     "schemaflow",
		Short:   "Schema-as-code migration engine",
		Long:    "schemaflow diffs declarative schema snapshots and generates reversible SQL migrations",
		Version: version.Get().String(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag {
				debug.Init(true)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewDiffCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewApplyCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewWatchCommand())

	return rootCmd.Execute()
}
