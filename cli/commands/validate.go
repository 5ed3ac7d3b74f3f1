package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/schemaflow/cli/internal/config"
	"github.com/satishbabariya/schemaflow/cli/internal/ui"
	"github.com/satishbabariya/schemaflow/schema"
	"github.com/satishbabariya/schemaflow/schema/snapshot"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [snapshot]",
		Short: "Validate a schema snapshot",
		Long:  "Parse a snapshot file and report every validation error and warning",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(path)
		},
	}
}

func runValidate(path string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if path == "" {
		path = cfg.SnapshotPath
	}

	ui.PrintHeader("Schemaflow", "Validate Snapshot")

	s, err := snapshot.Load(config.AppFs, path)
	if err != nil {
		return err
	}

	diags := schema.Validate(s)
	for _, w := range diags.Warnings() {
		ui.PrintWarning("%s: %s", w.Object, w.Message)
	}
	if diags.HasErrors() {
		fmt.Println(diags.ToPrettyString())
		return fmt.Errorf("snapshot %s is invalid", path)
	}

	ui.PrintSuccess("%s is valid (%d tables, %d enums, %d views)",
		path, len(s.Tables), len(s.Enums), len(s.Views))
	return nil
}
