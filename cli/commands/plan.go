package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/schemaflow/cli/internal/config"
	"github.com/satishbabariya/schemaflow/cli/internal/ui"
	"github.com/satishbabariya/schemaflow/migrate/planner"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand() *cobra.Command {
	var name string
	var explain bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate migration files from snapshot changes",
		Long:  "Diff the snapshot against the last planned state and write up/down SQL files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(name, explain)
		},
	}

	cmd.Flags().StringVar(&name, "name", "migration", "name for the generated migration")
	cmd.Flags().BoolVar(&explain, "explain", false, "render a summary of the plan")
	return cmd
}

func runPlan(name string, explain bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := config.AppFs

	if err := fs.MkdirAll(cfg.MigrationsDir, 0755); err != nil {
		return fmt.Errorf("failed to create migrations directory: %w", err)
	}

	old, err := loadBaseline(fs, cfg.MigrationsDir)
	if err != nil {
		return err
	}

	new, warnings, err := loadSnapshot(fs, cfg.SnapshotPath)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		ui.PrintWarning("%s: %s", w.Object, w.Message)
	}

	p, err := planner.NewPlanner(cfg.Dialect)
	if err != nil {
		return err
	}

	plan, err := p.Plan(old, new)
	if err != nil {
		return fmt.Errorf("failed to plan migration: %w", err)
	}

	if len(plan.Up) == 0 {
		ui.PrintSuccess("No schema changes, nothing to plan")
		return nil
	}

	seq, err := nextMigrationNumber(fs, cfg.MigrationsDir)
	if err != nil {
		return err
	}

	base := fmt.Sprintf("%04d_%s", seq, sanitizeName(name))
	upPath := filepath.Join(cfg.MigrationsDir, base+".up.sql")
	downPath := filepath.Join(cfg.MigrationsDir, base+".down.sql")

	if err := afero.WriteFile(fs, upPath, []byte(joinStatements(plan.Up)), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", upPath, err)
	}
	if err := afero.WriteFile(fs, downPath, []byte(joinStatements(plan.Down)), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", downPath, err)
	}

	// Record the planned state so the next plan diffs against it.
	snapshotData, err := afero.ReadFile(fs, cfg.SnapshotPath)
	if err != nil {
		return err
	}
	lockPath := filepath.Join(cfg.MigrationsDir, lockFileName)
	if err := afero.WriteFile(fs, lockPath, snapshotData, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", lockPath, err)
	}

	ui.PrintSuccess("Wrote %s (%d statements)", upPath, len(plan.Up))
	ui.PrintSuccess("Wrote %s (%d statements)", downPath, len(plan.Down))

	if plan.Diff.HasDestructiveChanges() {
		ui.PrintWarning("This migration contains destructive changes")
		for _, n := range plan.Diff.Notices {
			if n.Destructive {
				ui.PrintChange(n.Change, true)
			}
		}
	}

	if explain {
		return ui.PrintMarkdown(explainPlan(base, plan))
	}
	return nil
}

func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	var b strings.Builder
	for _, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "migration"
	}
	return b.String()
}

// explainPlan renders a markdown summary of the plan.
func explainPlan(name string, plan *planner.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Migration %s\n\n", name)
	fmt.Fprintf(&b, "Dialect: **%s**\n\n", plan.Dialect)

	b.WriteString("## Up\n\n```sql\n")
	for _, stmt := range plan.Up {
		b.WriteString(stmt)
		b.WriteString(";\n")
	}
	b.WriteString("```\n\n## Down\n\n```sql\n")
	for _, stmt := range plan.Down {
		b.WriteString(stmt)
		b.WriteString(";\n")
	}
	b.WriteString("```\n")

	if len(plan.Diff.Notices) > 0 {
		b.WriteString("\n## Notices\n\n")
		for _, n := range plan.Diff.Notices {
			if n.Destructive {
				fmt.Fprintf(&b, "- **%s** (destructive): %s\n", n.Change, n.Warning)
			} else {
				fmt.Fprintf(&b, "- %s\n", n.Change)
			}
		}
	}
	return b.String()
}
