package commands

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/satishbabariya/schemaflow/cli/internal/config"
	"github.com/satishbabariya/schemaflow/schema"
	"github.com/satishbabariya/schemaflow/schema/snapshot"
)

// lockFileName is the copy of the last planned snapshot kept in the
// migrations directory. Plans diff against it.
const lockFileName = "schema.lock.yaml"

var migrationFilePattern = regexp.MustCompile(`^(\d{4})_(.+)\.up\.sql$`)

// loadSnapshot loads and validates a snapshot file. Validation warnings are
// returned for display; errors abort.
func loadSnapshot(fs afero.Fs, path string) (*schema.Schema, []schema.ValidationWarning, error) {
	s, err := snapshot.Load(fs, path)
	if err != nil {
		return nil, nil, err
	}

	diags := schema.Validate(s)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("invalid snapshot %s:\n%s", path, diags.ToPrettyString())
	}
	return s, diags.Warnings(), nil
}

// loadBaseline loads the lock snapshot from the migrations directory, or an
// empty schema when no plan has been written yet.
func loadBaseline(fs afero.Fs, migrationsDir string) (*schema.Schema, error) {
	lockPath := filepath.Join(migrationsDir, lockFileName)
	ok, err := afero.Exists(fs, lockPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &schema.Schema{}, nil
	}
	s, _, err := loadSnapshot(fs, lockPath)
	return s, err
}

// openDB opens the configured database connection.
func openDB(cfg *config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	driver, err := cfg.DriverName()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// nextMigrationNumber returns the next sequence number for the directory.
func nextMigrationNumber(fs afero.Fs, migrationsDir string) (int, error) {
	entries, err := afero.ReadDir(fs, migrationsDir)
	if err != nil {
		return 0, err
	}

	max := 0
	for _, entry := range entries {
		m := migrationFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		if n > max {
			max = n
		}
	}
	return max + 1, nil
}

// listMigrations returns migration names (without the .up.sql suffix) in
// sequence order. A missing directory means no migrations yet.
func listMigrations(fs afero.Fs, migrationsDir string) ([]string, error) {
	ok, err := afero.DirExists(fs, migrationsDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	entries, err := afero.ReadDir(fs, migrationsDir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if migrationFilePattern.MatchString(entry.Name()) {
			names = append(names, strings.TrimSuffix(entry.Name(), ".up.sql"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// joinStatements renders statements into migration file content.
func joinStatements(statements []string) string {
	var b strings.Builder
	for _, stmt := range statements {
		b.WriteString(stmt)
		b.WriteString(";\n\n")
	}
	return b.String()
}

// splitStatements parses migration file content back into statements. The
// generator never emits a bare ";" followed by a newline inside a statement,
// so the boundary is unambiguous for planned files.
func splitStatements(content string) []string {
	var statements []string
	for _, part := range strings.Split(content, ";\n") {
		part = strings.TrimSpace(part)
		if part != "" {
			statements = append(statements, part)
		}
	}
	return statements
}

// isDestructiveSQL reports whether any statement drops a table, column,
// view or type.
func isDestructiveSQL(statements []string) bool {
	for _, stmt := range statements {
		upper := strings.ToUpper(stmt)
		if strings.HasPrefix(upper, "DROP TABLE") ||
			strings.HasPrefix(upper, "DROP VIEW") ||
			strings.HasPrefix(upper, "DROP TYPE") ||
			strings.Contains(upper, "DROP COLUMN") {
			return true
		}
	}
	return false
}
