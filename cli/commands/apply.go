package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/schemaflow/cli/internal/config"
	"github.com/satishbabariya/schemaflow/cli/internal/ui"
	"github.com/satishbabariya/schemaflow/migrate/executor"
)

// NewApplyCommand creates the apply command.
func NewApplyCommand() *cobra.Command {
	var force bool
	var down string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply pending migrations",
		Long:  "Run pending up migrations against the database, or roll one back with --down",
		RunE: func(cmd *cobra.Command, args []string) error {
			if down != "" {
				return runRollback(cmd.Context(), down, force)
			}
			return runApply(cmd.Context(), force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "apply destructive migrations without prompting")
	cmd.Flags().StringVar(&down, "down", "", "roll back the named migration instead of applying")
	return cmd
}

func runApply(ctx context.Context, force bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := config.AppFs

	available, err := listMigrations(fs, cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	if len(available) == 0 {
		ui.PrintInfo("No migrations found in %s", cfg.MigrationsDir)
		return nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	exec := executor.New(db, cfg.Dialect)
	pending, err := exec.Pending(ctx, available)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		ui.PrintSuccess("Database is up to date")
		return nil
	}

	for _, name := range pending {
		path := filepath.Join(cfg.MigrationsDir, name+".up.sql")
		content, err := afero.ReadFile(fs, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		statements := splitStatements(string(content))

		if isDestructiveSQL(statements) && !force {
			ui.PrintWarning("Migration %s contains destructive statements", name)
			ui.PrintSQL(statements)

			confirmed := false
			prompt := &survey.Confirm{
				Message: fmt.Sprintf("Apply destructive migration %s?", name),
			}
			if err := survey.AskOne(prompt, &confirmed); err != nil {
				return err
			}
			if !confirmed {
				ui.PrintInfo("Skipping remaining migrations")
				return nil
			}
		}

		spinner, _ := ui.PrintSpinner(fmt.Sprintf("Applying %s", name))
		if err := exec.Apply(ctx, name, statements); err != nil {
			if spinner != nil {
				spinner.Fail(fmt.Sprintf("Failed %s", name))
			}
			return fmt.Errorf("failed to apply %s: %w", name, err)
		}
		if spinner != nil {
			spinner.Success(fmt.Sprintf("Applied %s", name))
		}
	}

	ui.PrintSuccess("Applied %d migration(s)", len(pending))
	return nil
}

func runRollback(ctx context.Context, name string, force bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := config.AppFs

	name = strings.TrimSuffix(name, ".up.sql")
	path := filepath.Join(cfg.MigrationsDir, name+".down.sql")
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	statements := splitStatements(string(content))

	if !force {
		confirmed := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Roll back migration %s?", name),
		}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
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
	if err := exec.Rollback(ctx, name, statements); err != nil {
		return fmt.Errorf("failed to roll back %s: %w", name, err)
	}

	ui.PrintSuccess("Rolled back %s", name)
	return nil
}
