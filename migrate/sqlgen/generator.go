// Package sqlgen turns diff entries into dialect-specific DDL statements.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/schemaflow/migrate/naming"
	"github.com/satishbabariya/schemaflow/schema"
)

// Generator is the per-dialect DDL generation surface. Operations a dialect
// cannot express through this path return the empty string (constraints on
// SQLite are handled by table recreation, primary key changes by the
// table-level path).
type Generator interface {
	Dialect() string

	QuoteIdent(name string) string
	ColumnDefinition(c *schema.Column) string

	CreateTable(t *schema.Table) string
	DropTable(name string) string
	RenameTable(from, to string) string

	AddColumn(table string, c *schema.Column) string
	DropColumn(table, column string) string
	RenameColumn(table, from, to string) string
	// AlterColumnType returns ok=false when the dialect cannot alter the
	// type in place (SQLite: recreation takes over).
	AlterColumnType(table string, c *schema.Column) (string, bool)

	AddIndex(table string, idx *schema.Index) string
	DropIndex(table string, idx *schema.Index) string

	AddConstraint(table string, c *schema.Constraint) string
	// DropConstraint drops from table a constraint whose name was generated
	// for namedFor. Renaming a table does not rename its constraints, so a
	// drop after a rename must address the constraint by its original name.
	DropConstraint(table, namedFor string, c *schema.Constraint) string

	CreateOrReplaceView(v *schema.View) []string
	DropView(name string) string

	CreateEnum(e *schema.EnumType) string
	DropEnum(name string) string
	AddEnumValue(enum, value string) string
}

// New returns the generator for the given dialect.
func New(dialect string) (Generator, error) {
	switch dialect {
	case "postgresql", "postgres":
		return NewPostgresGenerator(), nil
	case "mysql":
		return NewMySQLGenerator(), nil
	case "sqlite":
		return NewSQLiteGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// quoteAll quotes every identifier and joins them with ", ".
func quoteAll(g Generator, names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = g.QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

// createTableBody renders the column and constraint clauses shared by all
// three dialects. skipPK suppresses the PRIMARY KEY clause when the dialect
// already folded it into a column definition.
func createTableBody(g Generator, t *schema.Table, skipPK bool) string {
	var clauses []string
	for i := range t.Columns {
		clauses = append(clauses, g.ColumnDefinition(&t.Columns[i]))
	}
	for i := range t.Constraints {
		c := &t.Constraints[i]
		if c.Kind == schema.ConstraintPrimaryKey && skipPK {
			continue
		}
		clauses = append(clauses, constraintClause(g, t.Name, c))
	}
	return strings.Join(clauses, ",\n  ")
}

// constraintClause renders the table-level clause for one constraint, with
// its deterministic generated name (primary keys stay unnamed).
func constraintClause(g Generator, table string, c *schema.Constraint) string {
	switch c.Kind {
	case schema.ConstraintPrimaryKey:
		return fmt.Sprintf("PRIMARY KEY (%s)", quoteAll(g, c.Columns))
	case schema.ConstraintUnique:
		return fmt.Sprintf("CONSTRAINT %s UNIQUE (%s)",
			g.QuoteIdent(naming.Constraint(table, c)), quoteAll(g, c.Columns))
	case schema.ConstraintCheck:
		return fmt.Sprintf("CONSTRAINT %s CHECK (%s)",
			g.QuoteIdent(naming.Constraint(table, c)), schema.NormalizeExpression(c.Expression))
	case schema.ConstraintForeignKey:
		return fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
			g.QuoteIdent(naming.Constraint(table, c)),
			quoteAll(g, c.Columns),
			g.QuoteIdent(c.ReferencedTable),
			quoteAll(g, c.ReferencedColumns))
	default:
		return ""
	}
}

// createIndex renders CREATE [UNIQUE] INDEX, identical across dialects.
func createIndex(g Generator, table string, idx *schema.Index) string {
	unique := ""
	if idx.IsUnique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
		unique, g.QuoteIdent(idx.Name), g.QuoteIdent(table), quoteAll(g, idx.Columns))
}
