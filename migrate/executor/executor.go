// Package executor applies planned migration statements to a database.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/satishbabariya/schemaflow/internal/debug"
	"github.com/satishbabariya/schemaflow/migrate/history"
)

// Executor runs migration statements and records them in the history table.
type Executor struct {
	db      *sql.DB
	dialect string
	history *history.Store
}

// New creates an executor for the given dialect.
func New(db *sql.DB, dialect string) *Executor {
	return &Executor{
		db:      db,
		dialect: dialect,
		history: history.NewStore(db, dialect),
	}
}

// EnsureHistoryTable creates the migration history table if missing.
func (e *Executor) EnsureHistoryTable(ctx context.Context) error {
	return e.history.Init(ctx)
}

// Apply executes the statements of one migration and records it. Statements
// normally run inside a single transaction. Sequences that carry their own
// transaction control, like the SQLite table rebuilds, run directly on the
// connection and the history row is written afterwards.
func (e *Executor) Apply(ctx context.Context, name string, statements []string) error {
	if err := e.EnsureHistoryTable(ctx); err != nil {
		return fmt.Errorf("failed to ensure history table: %w", err)
	}

	start := time.Now()
	debug.Debug("applying migration", "name", name, "statements", len(statements))

	if containsTxControl(statements) {
		debug.Debug("statements carry transaction control, running unwrapped", "name", name)
		if err := e.applyRaw(ctx, statements); err != nil {
			return err
		}
		return e.record(ctx, nil, name, statements, start)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	for i, stmt := range statements {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}

	if err := e.record(ctx, tx, name, statements, start); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}

// Rollback executes the down statements of a migration and flags the history
// row as rolled back.
func (e *Executor) Rollback(ctx context.Context, name string, statements []string) error {
	if containsTxControl(statements) {
		if err := e.applyRaw(ctx, statements); err != nil {
			return err
		}
		return e.history.MarkRolledBack(ctx, name)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for i, stmt := range statements {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rollback: %w", err)
	}
	return e.history.MarkRolledBack(ctx, name)
}

// Applied returns the recorded migration history.
func (e *Executor) Applied(ctx context.Context) ([]history.Record, error) {
	return e.history.All(ctx)
}

// Pending filters available migration names to those not yet applied.
func (e *Executor) Pending(ctx context.Context, available []string) ([]string, error) {
	return e.history.Pending(ctx, available)
}

func (e *Executor) applyRaw(ctx context.Context, statements []string) error {
	for i, stmt := range statements {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := e.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}
	return nil
}

func (e *Executor) record(ctx context.Context, tx *sql.Tx, name string, statements []string, start time.Time) error {
	return e.history.Record(ctx, tx, &history.Record{
		Name:          name,
		AppliedAt:     time.Now(),
		Checksum:      history.Checksum(statements),
		ExecutionTime: time.Since(start).Milliseconds(),
	})
}

// containsTxControl reports whether the statements manage their own
// transaction boundaries.
func containsTxControl(statements []string) bool {
	for _, stmt := range statements {
		upper := strings.ToUpper(strings.TrimSpace(stmt))
		if strings.HasPrefix(upper, "BEGIN") ||
			strings.HasPrefix(upper, "COMMIT") ||
			strings.HasPrefix(upper, "PRAGMA") {
			return true
		}
	}
	return false
}
