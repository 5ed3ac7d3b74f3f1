package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/schemaflow/cli/internal/config"
	"github.com/satishbabariya/schemaflow/cli/internal/ui"
	"github.com/satishbabariya/schemaflow/migrate/diff"
	"github.com/satishbabariya/schemaflow/migrate/planner"
)

// NewDiffCommand creates the diff command.
func NewDiffCommand() *cobra.Command {
	var dialect string
	var showSQL bool

	cmd := &cobra.Command{
		Use:   "diff <old-snapshot> <new-snapshot>",
		Short: "Compare two schema snapshots",
		Long:  "Diff two snapshot files and print the classified change list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1], dialect, showSQL)
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "", "target dialect (defaults to configured dialect)")
	cmd.Flags().BoolVar(&showSQL, "sql", false, "print the generated up statements")
	return cmd
}

func runDiff(oldPath, newPath, dialect string, showSQL bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dialect == "" {
		dialect = cfg.Dialect
	}

	old, warnings, err := loadSnapshot(config.AppFs, oldPath)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		ui.PrintWarning("%s: %s", w.Object, w.Message)
	}

	new, warnings, err := loadSnapshot(config.AppFs, newPath)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		ui.PrintWarning("%s: %s", w.Object, w.Message)
	}

	d := diff.Classify(diff.Detect(old, new))
	if d.IsEmpty() {
		ui.PrintSuccess("No schema changes")
		return nil
	}

	ui.PrintSection(fmt.Sprintf("Changes (%s)", dialect))
	for _, line := range additionSummary(d) {
		ui.PrintChange(line, false)
	}
	for _, n := range d.Notices {
		ui.PrintChange(n.Change, n.Destructive)
		if n.Warning != "" {
			ui.PrintWarning("%s", n.Warning)
		}
	}

	if d.HasDestructiveChanges() {
		ui.PrintWarning("This diff contains destructive changes")
	}

	if showSQL {
		p, err := planner.NewPlanner(dialect)
		if err != nil {
			return err
		}
		plan, err := p.Plan(old, new)
		if err != nil {
			return err
		}
		ui.PrintSection("Up SQL")
		ui.PrintSQL(plan.Up)
	}

	return nil
}

// additionSummary lists the changes Classify leaves out of the notice report
// because they never lose data.
func additionSummary(d *diff.SchemaDiff) []string {
	var lines []string
	for _, e := range d.AddedEnums {
		lines = append(lines, fmt.Sprintf("add enum %q", e.Name))
	}
	for _, t := range d.AddedTables {
		lines = append(lines, fmt.Sprintf("add table %q", t.Name))
	}
	for _, r := range d.RenamedTables {
		lines = append(lines, fmt.Sprintf("rename table %q to %q", r.From, r.To))
	}
	for i := range d.ModifiedTables {
		td := &d.ModifiedTables[i]
		for _, c := range td.AddedColumns {
			lines = append(lines, fmt.Sprintf("add column %q.%q", td.Name, c.Name))
		}
		for j := range td.ModifiedColumns {
			cd := &td.ModifiedColumns[j]
			if cd.RenamedFrom != "" {
				lines = append(lines, fmt.Sprintf("rename column %q.%q to %q", td.Name, cd.RenamedFrom, cd.Name))
			}
		}
		for _, ix := range td.AddedIndexes {
			lines = append(lines, fmt.Sprintf("add index %q on %q", ix.Name, td.Name))
		}
		for _, ix := range td.RemovedIndexes {
			lines = append(lines, fmt.Sprintf("remove index %q from %q", ix.Name, td.Name))
		}
	}
	for _, v := range d.AddedViews {
		lines = append(lines, fmt.Sprintf("add view %q", v.Name))
	}
	for i := range d.ModifiedViews {
		lines = append(lines, fmt.Sprintf("replace view %q", d.ModifiedViews[i].Name))
	}
	for _, r := range d.RenamedViews {
		lines = append(lines, fmt.Sprintf("rename view %q to %q", r.From, r.To))
	}
	return lines
}
