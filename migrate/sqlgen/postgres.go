package sqlgen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/schemaflow/migrate/naming"
	"github.com/satishbabariya/schemaflow/schema"
)

// PostgresGenerator implements Generator for PostgreSQL.
type PostgresGenerator struct{}

// NewPostgresGenerator creates a new PostgreSQL generator.
func NewPostgresGenerator() *PostgresGenerator {
	return &PostgresGenerator{}
}

func (g *PostgresGenerator) Dialect() string {
	return "postgres"
}

// QuoteIdent quotes an identifier with ANSI double quotes.
func (g *PostgresGenerator) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (g *PostgresGenerator) columnType(t schema.ColumnType) string {
	switch t.Kind {
	case schema.TypeInteger:
		return "INTEGER"
	case schema.TypeBigInt:
		return "BIGINT"
	case schema.TypeSmallInt:
		return "SMALLINT"
	case schema.TypeVarchar:
		return fmt.Sprintf("VARCHAR(%d)", t.Length)
	case schema.TypeText:
		return "TEXT"
	case schema.TypeBoolean:
		return "BOOLEAN"
	case schema.TypeTimestamp:
		return "TIMESTAMP"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeTime:
		return "TIME"
	case schema.TypeFloat:
		return "REAL"
	case schema.TypeDouble:
		return "DOUBLE PRECISION"
	case schema.TypeDecimal:
		return fmt.Sprintf("DECIMAL(%d,%d)", t.Precision, t.Scale)
	case schema.TypeJSON:
		return "JSONB"
	case schema.TypeBlob:
		return "BYTEA"
	case schema.TypeUUID:
		return "UUID"
	case schema.TypeSerial:
		return "SERIAL"
	case schema.TypeBigSerial:
		return "BIGSERIAL"
	case schema.TypeEnum:
		if t.EnumName != "" {
			return g.QuoteIdent(t.EnumName)
		}
		// Inline enums have no named type; stored as TEXT, the value check
		// is appended by ColumnDefinition.
		return "TEXT"
	case schema.TypeArray:
		if t.Elem == nil {
			return "TEXT[]"
		}
		return g.columnType(*t.Elem) + "[]"
	default:
		return "TEXT"
	}
}

// ColumnDefinition renders "name type [NOT NULL] [DEFAULT expr]".
func (g *PostgresGenerator) ColumnDefinition(c *schema.Column) string {
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
	if c.Type.Kind == schema.TypeEnum && c.Type.EnumName == "" && len(c.Type.Values) > 0 {
		b.WriteString(fmt.Sprintf(" CHECK (%s IN (%s))", g.QuoteIdent(c.Name), quoteEnumValues(c.Type.Values)))
	}
	return b.String()
}

func (g *PostgresGenerator) CreateTable(t *schema.Table) string {
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", g.QuoteIdent(t.Name), createTableBody(g, t, false))
}

func (g *PostgresGenerator) DropTable(name string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", g.QuoteIdent(name))
}

func (g *PostgresGenerator) RenameTable(from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", g.QuoteIdent(from), g.QuoteIdent(to))
}

func (g *PostgresGenerator) AddColumn(table string, c *schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", g.QuoteIdent(table), g.ColumnDefinition(c))
}

func (g *PostgresGenerator) DropColumn(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", g.QuoteIdent(table), g.QuoteIdent(column))
}

func (g *PostgresGenerator) RenameColumn(table, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		g.QuoteIdent(table), g.QuoteIdent(from), g.QuoteIdent(to))
}

func (g *PostgresGenerator) AlterColumnType(table string, c *schema.Column) (string, bool) {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s",
		g.QuoteIdent(table), g.QuoteIdent(c.Name), g.columnType(c.Type)), true
}

func (g *PostgresGenerator) AddIndex(table string, idx *schema.Index) string {
	return createIndex(g, table, idx)
}

func (g *PostgresGenerator) DropIndex(table string, idx *schema.Index) string {
	return fmt.Sprintf("DROP INDEX IF EXISTS %s", g.QuoteIdent(idx.Name))
}

// AddConstraint emits ALTER TABLE ... ADD CONSTRAINT. Primary key changes are
// handled by the table-level path, so they yield the empty string here.
func (g *PostgresGenerator) AddConstraint(table string, c *schema.Constraint) string {
	if c.Kind == schema.ConstraintPrimaryKey {
		return ""
	}
	return fmt.Sprintf("ALTER TABLE %s ADD %s", g.QuoteIdent(table), constraintClause(g, table, c))
}

func (g *PostgresGenerator) DropConstraint(table, namedFor string, c *schema.Constraint) string {
	if c.Kind == schema.ConstraintPrimaryKey {
		return ""
	}
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s",
		g.QuoteIdent(table), g.QuoteIdent(naming.Constraint(namedFor, c)))
}

func (g *PostgresGenerator) CreateOrReplaceView(v *schema.View) []string {
	return []string{fmt.Sprintf("CREATE OR REPLACE VIEW %s AS %s",
		g.QuoteIdent(v.Name), strings.TrimSpace(v.Definition))}
}

func (g *PostgresGenerator) DropView(name string) string {
	return fmt.Sprintf("DROP VIEW IF EXISTS %s", g.QuoteIdent(name))
}

func (g *PostgresGenerator) CreateEnum(e *schema.EnumType) string {
	return fmt.Sprintf("CREATE TYPE %s AS ENUM (%s)", g.QuoteIdent(e.Name), quoteEnumValues(e.Values))
}

func (g *PostgresGenerator) DropEnum(name string) string {
	return fmt.Sprintf("DROP TYPE IF EXISTS %s", g.QuoteIdent(name))
}

func (g *PostgresGenerator) AddEnumValue(enum, value string) string {
	return fmt.Sprintf("ALTER TYPE %s ADD VALUE IF NOT EXISTS '%s'", g.QuoteIdent(enum), value)
}

func quoteEnumValues(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return strings.Join(quoted, ", ")
}
