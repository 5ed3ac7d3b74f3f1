package schema

import "strings"

// ConstraintKind identifies a constraint variant.
type ConstraintKind int

const (
	ConstraintPrimaryKey ConstraintKind = iota
	ConstraintForeignKey
	ConstraintUnique
	ConstraintCheck
)

// String returns a short tag for the kind, used in diagnostics.
func (k ConstraintKind) String() string {
	switch k {
	case ConstraintPrimaryKey:
		return "PRIMARY KEY"
	case ConstraintForeignKey:
		return "FOREIGN KEY"
	case ConstraintUnique:
		return "UNIQUE"
	case ConstraintCheck:
		return "CHECK"
	default:
		return "UNKNOWN"
	}
}

// Constraint is a tagged variant over the four constraint kinds. Constraints
// carry no persisted name; identity is structural and names are generated at
// SQL-generation time.
type Constraint struct {
	Kind              ConstraintKind
	Columns           []string
	ReferencedTable   string   // FOREIGN KEY only
	ReferencedColumns []string // FOREIGN KEY only
	Expression        string   // CHECK only
}

// Equal reports structural equality: kind and columns must match, plus the
// reference for foreign keys and the whitespace-normalized expression for
// checks.
func (c *Constraint) Equal(other *Constraint) bool {
	if c.Kind != other.Kind {
		return false
	}
	if !stringSlicesEqual(c.Columns, other.Columns) {
		return false
	}
	switch c.Kind {
	case ConstraintForeignKey:
		return c.ReferencedTable == other.ReferencedTable &&
			stringSlicesEqual(c.ReferencedColumns, other.ReferencedColumns)
	case ConstraintCheck:
		return NormalizeExpression(c.Expression) == NormalizeExpression(other.Expression)
	default:
		return true
	}
}

// Key returns the structural identity of the constraint, stable across runs.
func (c *Constraint) Key() string {
	var b strings.Builder
	b.WriteString(c.Kind.String())
	b.WriteByte('(')
	b.WriteString(strings.Join(c.Columns, ","))
	b.WriteByte(')')
	switch c.Kind {
	case ConstraintForeignKey:
		b.WriteString("->")
		b.WriteString(c.ReferencedTable)
		b.WriteByte('(')
		b.WriteString(strings.Join(c.ReferencedColumns, ","))
		b.WriteByte(')')
	case ConstraintCheck:
		b.WriteByte(':')
		b.WriteString(NormalizeExpression(c.Expression))
	}
	return b.String()
}

// NormalizeExpression collapses consecutive whitespace (including newlines)
// in a CHECK expression into single spaces. The SQL itself is not re-parsed:
// two semantically identical but differently written expressions still
// compare unequal.
func NormalizeExpression(expr string) string {
	return strings.Join(strings.Fields(expr), " ")
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, s := range a {
		if s != b[i] {
			return false
		}
	}
	return true
}
