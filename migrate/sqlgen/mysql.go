package sqlgen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/schemaflow/migrate/naming"
	"github.com/satishbabariya/schemaflow/schema"
)

// MySQLGenerator implements Generator for MySQL.
type MySQLGenerator struct{}

// NewMySQLGenerator creates a new MySQL generator.
func NewMySQLGenerator() *MySQLGenerator {
	return &MySQLGenerator{}
}

func (g *MySQLGenerator) Dialect() string {
	return "mysql"
}

// QuoteIdent quotes an identifier with backticks.
func (g *MySQLGenerator) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (g *MySQLGenerator) columnType(t schema.ColumnType) string {
	switch t.Kind {
	case schema.TypeInteger:
		return "INT"
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
		return "DATETIME"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeTime:
		return "TIME"
	case schema.TypeFloat:
		return "FLOAT"
	case schema.TypeDouble:
		return "DOUBLE"
	case schema.TypeDecimal:
		return fmt.Sprintf("DECIMAL(%d,%d)", t.Precision, t.Scale)
	case schema.TypeJSON:
		return "JSON"
	case schema.TypeBlob:
		return "BLOB"
	case schema.TypeUUID:
		return "CHAR(36)"
	case schema.TypeSerial:
		return "INT"
	case schema.TypeBigSerial:
		return "BIGINT"
	case schema.TypeEnum:
		// MySQL inlines enum values in the column type, named or not.
		if len(t.Values) > 0 {
			return fmt.Sprintf("ENUM(%s)", quoteEnumValues(t.Values))
		}
		return "VARCHAR(191)"
	case schema.TypeArray:
		// No native arrays; stored as JSON.
		return "JSON"
	default:
		return "TEXT"
	}
}

// ColumnDefinition renders "name type [NOT NULL] [DEFAULT expr]
// [AUTO_INCREMENT]". The serial kinds imply auto-increment.
func (g *MySQLGenerator) ColumnDefinition(c *schema.Column) string {
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
	if c.AutoIncrement || c.Type.Kind == schema.TypeSerial || c.Type.Kind == schema.TypeBigSerial {
		b.WriteString(" AUTO_INCREMENT")
	}
	return b.String()
}

func (g *MySQLGenerator) CreateTable(t *schema.Table) string {
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", g.QuoteIdent(t.Name), createTableBody(g, t, false))
}

func (g *MySQLGenerator) DropTable(name string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", g.QuoteIdent(name))
}

func (g *MySQLGenerator) RenameTable(from, to string) string {
	return fmt.Sprintf("RENAME TABLE %s TO %s", g.QuoteIdent(from), g.QuoteIdent(to))
}

func (g *MySQLGenerator) AddColumn(table string, c *schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", g.QuoteIdent(table), g.ColumnDefinition(c))
}

func (g *MySQLGenerator) DropColumn(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", g.QuoteIdent(table), g.QuoteIdent(column))
}

func (g *MySQLGenerator) RenameColumn(table, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		g.QuoteIdent(table), g.QuoteIdent(from), g.QuoteIdent(to))
}

// AlterColumnType uses MODIFY COLUMN, which restates the full definition.
func (g *MySQLGenerator) AlterColumnType(table string, c *schema.Column) (string, bool) {
	return fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s",
		g.QuoteIdent(table), g.ColumnDefinition(c)), true
}

func (g *MySQLGenerator) AddIndex(table string, idx *schema.Index) string {
	return createIndex(g, table, idx)
}

func (g *MySQLGenerator) DropIndex(table string, idx *schema.Index) string {
	return fmt.Sprintf("DROP INDEX %s ON %s", g.QuoteIdent(idx.Name), g.QuoteIdent(table))
}

func (g *MySQLGenerator) AddConstraint(table string, c *schema.Constraint) string {
	if c.Kind == schema.ConstraintPrimaryKey {
		return ""
	}
	return fmt.Sprintf("ALTER TABLE %s ADD %s", g.QuoteIdent(table), constraintClause(g, table, c))
}

// DropConstraint diverges per constraint kind: MySQL drops unique constraints
// as indexes, checks as checks and foreign keys as foreign keys.
func (g *MySQLGenerator) DropConstraint(table, namedFor string, c *schema.Constraint) string {
	name := naming.Constraint(namedFor, c)
	switch c.Kind {
	case schema.ConstraintUnique:
		return fmt.Sprintf("ALTER TABLE %s DROP INDEX %s", g.QuoteIdent(table), g.QuoteIdent(name))
	case schema.ConstraintCheck:
		return fmt.Sprintf("ALTER TABLE %s DROP CHECK %s", g.QuoteIdent(table), g.QuoteIdent(name))
	case schema.ConstraintForeignKey:
		return fmt.Sprintf("ALTER TABLE %s DROP FOREIGN KEY %s", g.QuoteIdent(table), g.QuoteIdent(name))
	default:
		return ""
	}
}

func (g *MySQLGenerator) CreateOrReplaceView(v *schema.View) []string {
	return []string{fmt.Sprintf("CREATE OR REPLACE VIEW %s AS %s",
		g.QuoteIdent(v.Name), strings.TrimSpace(v.Definition))}
}

func (g *MySQLGenerator) DropView(name string) string {
	return fmt.Sprintf("DROP VIEW IF EXISTS %s", g.QuoteIdent(name))
}

// CreateEnum returns "": MySQL has no standalone enum types, the values live
// in the column definition.
func (g *MySQLGenerator) CreateEnum(e *schema.EnumType) string {
	return ""
}

func (g *MySQLGenerator) DropEnum(name string) string {
	return ""
}

func (g *MySQLGenerator) AddEnumValue(enum, value string) string {
	return ""
}
