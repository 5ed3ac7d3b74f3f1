// Package naming generates deterministic constraint identifiers. The same
// input always yields the same name, so generated migrations stay byte-stable
// across runs.
package naming

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/satishbabariya/schemaflow/schema"
)

// MaxIdentifierLength is the common dialect identifier limit (PostgreSQL's 63
// bytes is the tightest of the three supported dialects).
const MaxIdentifierLength = 63

const hashSuffixLength = 8

// ForeignKey returns the generated name for a foreign key constraint.
func ForeignKey(table string, columns []string, referencedTable string) string {
	return build("fk", table, columns, referencedTable)
}

// Unique returns the generated name for a unique constraint.
func Unique(table string, columns []string) string {
	return build("uq", table, columns, "")
}

// Check returns the generated name for a check constraint.
func Check(table string, columns []string) string {
	return build("ck", table, columns, "")
}

// Constraint returns the generated name for any constraint kind. Primary keys
// have no generated name on the constraint path and yield "".
func Constraint(table string, c *schema.Constraint) string {
	switch c.Kind {
	case schema.ConstraintForeignKey:
		return ForeignKey(table, c.Columns, c.ReferencedTable)
	case schema.ConstraintUnique:
		return Unique(table, c.Columns)
	case schema.ConstraintCheck:
		return Check(table, c.Columns)
	default:
		return ""
	}
}

// build assembles {prefix}_{table}_{columns...}[_{referenced}] and, when the
// result exceeds the identifier limit, truncates the base and appends a
// fixed-width hash of the full untruncated name so the identifier stays
// unique and reproducible.
func build(prefix, table string, columns []string, referenced string) string {
	parts := []string{prefix, table}
	parts = append(parts, columns...)
	if referenced != "" {
		parts = append(parts, referenced)
	}
	name := strings.Join(parts, "_")
	if len(name) <= MaxIdentifierLength {
		return name
	}

	sum := sha256.Sum256([]byte(name))
	suffix := hex.EncodeToString(sum[:])[:hashSuffixLength]
	base := name[:MaxIdentifierLength-hashSuffixLength-1]
	return base + "_" + suffix
}
