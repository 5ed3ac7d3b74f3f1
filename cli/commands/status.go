package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/schemaflow/cli/internal/config"
	"github.com/satishbabariya/schemaflow/cli/internal/ui"
	"github.com/satishbabariya/schemaflow/migrate/executor"
)

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  "List applied migrations from the history table and pending files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context())
		},
	}
}

func runStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	available, err := listMigrations(config.AppFs, cfg.MigrationsDir)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	exec := executor.New(db, cfg.Dialect)
	if err := exec.EnsureHistoryTable(ctx); err != nil {
		return err
	}

	records, err := exec.Applied(ctx)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		ui.PrintInfo("No migrations applied yet")
	} else {
		rows := make([][]string, 0, len(records))
		for _, rec := range records {
			state := "applied"
			if rec.RolledBack {
				state = "rolled back"
			}
			rows = append(rows, []string{
				rec.Name,
				rec.AppliedAt.Format("2006-01-02 15:04:05"),
				state,
				fmt.Sprintf("%dms", rec.ExecutionTime),
				rec.Checksum[:12],
			})
		}
		ui.PrintTable([]string{"Migration", "Applied At", "State", "Duration", "Checksum"}, rows)
	}

	pending, err := exec.Pending(ctx, available)
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		ui.PrintWarning("%d pending migration(s):", len(pending))
		for _, name := range pending {
			fmt.Printf("  • %s\n", name)
		}
	} else {
		ui.PrintSuccess("Database is up to date")
	}
	return nil
}
