package sqlgen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/schemaflow/schema"
)

// SQLiteGenerator implements Generator for SQLite. Constraint changes and
// column type changes cannot be expressed as ALTER TABLE and return the
// empty string / ok=false; RecreateTable covers them.
type SQLiteGenerator struct{}

// NewSQLiteGenerator creates a new SQLite generator.
func NewSQLiteGenerator() *SQLiteGenerator {
	return &SQLiteGenerator{}
}

func (g *SQLiteGenerator) Dialect() string {
	return "sqlite"
}

// QuoteIdent quotes an identifier with ANSI double quotes.
func (g *SQLiteGenerator) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (g *SQLiteGenerator) columnType(t schema.ColumnType) string {
	switch t.Kind {
	case schema.TypeInteger, schema.TypeSmallInt, schema.TypeSerial:
		return "INTEGER"
	case schema.TypeBigInt, schema.TypeBigSerial:
		return "INTEGER"
	case schema.TypeVarchar:
		return fmt.Sprintf("VARCHAR(%d)", t.Length)
	case schema.TypeText:
		return "TEXT"
	case schema.TypeBoolean:
		return "BOOLEAN"
	case schema.TypeTimestamp:
		return "DATETIME"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeTime:
		return "TIME"
	case schema.TypeFloat, schema.TypeDouble:
		return "REAL"
	case schema.TypeDecimal:
		return fmt.Sprintf("DECIMAL(%d,%d)", t.Precision, t.Scale)
	case schema.TypeJSON:
		return "TEXT"
	case schema.TypeBlob:
		return "BLOB"
	case schema.TypeUUID:
		return "TEXT"
	case schema.TypeEnum:
		// Enums are stored as TEXT; the value check is appended by
		// ColumnDefinition.
		return "TEXT"
	case schema.TypeArray:
		return "TEXT"
	default:
		return "TEXT"
	}
}

func (g *SQLiteGenerator) ColumnDefinition(c *schema.Column) string {
	var b strings.Builder
	b.WriteString(g.QuoteIdent(c.Name))
	b.WriteByte(' ')
	b.WriteString(g.columnType(c.Type))
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(*c.Default)
	}
	if c.Type.Kind == schema.TypeEnum && len(c.Type.Values) > 0 {
		b.WriteString(fmt.Sprintf(" CHECK (%s IN (%s))", g.QuoteIdent(c.Name), quoteEnumValues(c.Type.Values)))
	}
	return b.String()
}

// CreateTable folds a single-column primary key on an auto-increment column
// into the column definition, which is how SQLite expects rowid aliases.
func (g *SQLiteGenerator) CreateTable(t *schema.Table) string {
	if col := g.rowIDColumn(t); col != nil {
		var clauses []string
		for i := range t.Columns {
			c := &t.Columns[i]
			if c.Name == col.Name {
				clauses = append(clauses, fmt.Sprintf("%s INTEGER PRIMARY KEY AUTOINCREMENT", g.QuoteIdent(c.Name)))
				continue
			}
			clauses = append(clauses, g.ColumnDefinition(c))
		}
		for i := range t.Constraints {
			c := &t.Constraints[i]
			if c.Kind == schema.ConstraintPrimaryKey {
				continue
			}
			clauses = append(clauses, constraintClause(g, t.Name, c))
		}
		return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", g.QuoteIdent(t.Name), strings.Join(clauses, ",\n  "))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", g.QuoteIdent(t.Name), createTableBody(g, t, false))
}

// rowIDColumn returns the table's auto-increment column when it alone forms
// the primary key.
func (g *SQLiteGenerator) rowIDColumn(t *schema.Table) *schema.Column {
	pk := t.PrimaryKey()
	if pk == nil || len(pk.Columns) != 1 {
		return nil
	}
	col := t.Column(pk.Columns[0])
	if col == nil {
		return nil
	}
	if col.AutoIncrement || col.Type.Kind == schema.TypeSerial || col.Type.Kind == schema.TypeBigSerial {
		return col
	}
	return nil
}

func (g *SQLiteGenerator) DropTable(name string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", g.QuoteIdent(name))
}

func (g *SQLiteGenerator) RenameTable(from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", g.QuoteIdent(from), g.QuoteIdent(to))
}

func (g *SQLiteGenerator) AddColumn(table string, c *schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", g.QuoteIdent(table), g.ColumnDefinition(c))
}

func (g *SQLiteGenerator) DropColumn(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", g.QuoteIdent(table), g.QuoteIdent(column))
}

func (g *SQLiteGenerator) RenameColumn(table, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		g.QuoteIdent(table), g.QuoteIdent(from), g.QuoteIdent(to))
}

// AlterColumnType is unsupported: SQLite cannot change a column type in
// place. Table recreation handles it.
func (g *SQLiteGenerator) AlterColumnType(table string, c *schema.Column) (string, bool) {
	return "", false
}

func (g *SQLiteGenerator) AddIndex(table string, idx *schema.Index) string {
	return createIndex(g, table, idx)
}

func (g *SQLiteGenerator) DropIndex(table string, idx *schema.Index) string {
	return fmt.Sprintf("DROP INDEX IF EXISTS %s", g.QuoteIdent(idx.Name))
}

// AddConstraint is unsupported on existing tables: recreation handles it.
func (g *SQLiteGenerator) AddConstraint(table string, c *schema.Constraint) string {
	return ""
}

// DropConstraint is unsupported on existing tables: recreation handles it.
func (g *SQLiteGenerator) DropConstraint(table, namedFor string, c *schema.Constraint) string {
	return ""
}

// CreateOrReplaceView emits a drop+create pair: SQLite has no
// CREATE OR REPLACE VIEW.
func (g *SQLiteGenerator) CreateOrReplaceView(v *schema.View) []string {
	return []string{
		fmt.Sprintf("DROP VIEW IF EXISTS %s", g.QuoteIdent(v.Name)),
		fmt.Sprintf("CREATE VIEW %s AS %s", g.QuoteIdent(v.Name), strings.TrimSpace(v.Definition)),
	}
}

func (g *SQLiteGenerator) DropView(name string) string {
	return fmt.Sprintf("DROP VIEW IF EXISTS %s", g.QuoteIdent(name))
}

// CreateEnum returns "": SQLite stores enums as TEXT with a value check.
func (g *SQLiteGenerator) CreateEnum(e *schema.EnumType) string {
	return ""
}

func (g *SQLiteGenerator) DropEnum(name string) string {
	return ""
}

func (g *SQLiteGenerator) AddEnumValue(enum, value string) string {
	return ""
}
