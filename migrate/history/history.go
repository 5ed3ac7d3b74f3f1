// Package history tracks applied migrations in the target database.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// TableName is the bookkeeping table created in the target database.
const TableName = "_schemaflow_migrations"

// Record represents an applied migration.
type Record struct {
	ID            int64
	Name          string
	AppliedAt     time.Time
	Checksum      string
	ExecutionTime int64 // milliseconds
	RolledBack    bool
}

// Store reads and writes the migration history table.
type Store struct {
	db      *sql.DB
	dialect string
}

// NewStore creates a history store for the given dialect.
func NewStore(db *sql.DB, dialect string) *Store {
	return &Store{db: db, dialect: dialect}
}

// Init creates the history table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.createTableSQL()); err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}
	return nil
}

// Record inserts an applied migration. It accepts an optional transaction so
// the history row commits atomically with the migration itself.
func (s *Store) Record(ctx context.Context, tx *sql.Tx, rec *Record) error {
	rolledBack := 0
	if rec.RolledBack {
		rolledBack = 1
	}

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, s.insertSQL(),
			rec.Name, rec.AppliedAt, rec.Checksum, rec.ExecutionTime, rolledBack)
	} else {
		_, err = s.db.ExecContext(ctx, s.insertSQL(),
			rec.Name, rec.AppliedAt, rec.Checksum, rec.ExecutionTime, rolledBack)
	}
	return err
}

// All returns every migration record in applied order.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, applied_at, checksum, execution_time_ms, rolled_back
		FROM `+TableName+`
		ORDER BY applied_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var rolledBack int
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.AppliedAt, &rec.Checksum, &rec.ExecutionTime, &rolledBack); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		rec.RolledBack = rolledBack == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// AppliedNames returns the names of migrations that are applied and not
// rolled back, in applied order.
func (s *Store) AppliedNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM `+TableName+`
		WHERE rolled_back = 0
		ORDER BY applied_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan migration name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Pending filters available migration names down to those not yet applied.
func (s *Store) Pending(ctx context.Context, available []string) ([]string, error) {
	applied, err := s.AppliedNames(ctx)
	if err != nil {
		return nil, err
	}

	appliedSet := make(map[string]bool, len(applied))
	for _, name := range applied {
		appliedSet[name] = true
	}

	var pending []string
	for _, name := range available {
		if !appliedSet[name] {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

// MarkRolledBack flags a migration as rolled back.
func (s *Store) MarkRolledBack(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, s.updateRolledBackSQL(), name)
	return err
}

// Checksum computes the checksum stored alongside each applied migration.
func Checksum(statements []string) string {
	h := sha256.New()
	for _, stmt := range statements {
		h.Write([]byte(stmt))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Store) createTableSQL() string {
	switch s.dialect {
	case "postgresql", "postgres":
		return `
			CREATE TABLE IF NOT EXISTS ` + TableName + ` (
				id SERIAL PRIMARY KEY,
				name VARCHAR(255) NOT NULL UNIQUE,
				applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				checksum VARCHAR(64) NOT NULL,
				execution_time_ms INTEGER,
				rolled_back SMALLINT NOT NULL DEFAULT 0
			)
		`
	case "mysql":
		return `
			CREATE TABLE IF NOT EXISTS ` + TableName + ` (
				id INT AUTO_INCREMENT PRIMARY KEY,
				name VARCHAR(255) NOT NULL UNIQUE,
				applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				checksum VARCHAR(64) NOT NULL,
				execution_time_ms INT,
				rolled_back TINYINT(1) NOT NULL DEFAULT 0
			)
		`
	case "sqlite":
		return `
			CREATE TABLE IF NOT EXISTS ` + TableName + ` (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				checksum TEXT NOT NULL,
				execution_time_ms INTEGER,
				rolled_back INTEGER NOT NULL DEFAULT 0
			)
		`
	default:
		return ""
	}
}

func (s *Store) insertSQL() string {
	switch s.dialect {
	case "postgresql", "postgres":
		return `
			INSERT INTO ` + TableName + ` (name, applied_at, checksum, execution_time_ms, rolled_back)
			VALUES ($1, $2, $3, $4, $5)
		`
	default:
		return `
			INSERT INTO ` + TableName + ` (name, applied_at, checksum, execution_time_ms, rolled_back)
			VALUES (?, ?, ?, ?, ?)
		`
	}
}

func (s *Store) updateRolledBackSQL() string {
	switch s.dialect {
	case "postgresql", "postgres":
		return `UPDATE ` + TableName + ` SET rolled_back = 1 WHERE name = $1`
	default:
		return `UPDATE ` + TableName + ` SET rolled_back = 1 WHERE name = ?`
	}
}
