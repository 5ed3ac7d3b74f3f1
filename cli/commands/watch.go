package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/schemaflow/cli/internal/config"
	"github.com/satishbabariya/schemaflow/cli/internal/ui"
	"github.com/satishbabariya/schemaflow/cli/internal/watch"
	"github.com/satishbabariya/schemaflow/migrate/diff"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-diff the snapshot on every change",
		Long:  "Watch the snapshot file and print the change list against the last planned state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch()
		},
	}
}

func runWatch() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := config.AppFs

	ui.PrintHeader("Schemaflow", "Watch Mode")

	rediff := func() error {
		old, err := loadBaseline(fs, cfg.MigrationsDir)
		if err != nil {
			return err
		}
		new, warnings, err := loadSnapshot(fs, cfg.SnapshotPath)
		if err != nil {
			// Keep watching through transient parse errors while the file
			// is being edited.
			ui.PrintError("%v", err)
			return nil
		}
		for _, w := range warnings {
			ui.PrintWarning("%s: %s", w.Object, w.Message)
		}

		d := diff.Classify(diff.Detect(old, new))
		if d.IsEmpty() {
			ui.PrintSuccess("In sync with last plan")
			return nil
		}
		for _, line := range additionSummary(d) {
			ui.PrintChange(line, false)
		}
		for _, n := range d.Notices {
			ui.PrintChange(n.Change, n.Destructive)
		}
		return nil
	}

	w, err := watch.NewWatcher(cfg.SnapshotPath, rediff)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	ui.PrintInfo("Watching %s (ctrl-c to stop)", cfg.SnapshotPath)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
