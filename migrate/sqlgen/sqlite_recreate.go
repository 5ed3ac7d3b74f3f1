package sqlgen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/schemaflow/schema"
)

// recreateTempPrefix is prepended to the table name for the swap table.
const recreateTempPrefix = "_schemaflow_new_"

// RecreateTable emits the whole-table rebuild SQLite needs for alterations
// it cannot express as ALTER TABLE: create the new shape under a temporary
// name, copy the surviving data, drop the old table and swap names. This is
// the single mechanism for column type changes and constraint changes on
// SQLite; the caller must run it at most once per table and direction.
func (g *SQLiteGenerator) RecreateTable(old, new *schema.Table) []string {
	temp := recreateTempPrefix + new.Name

	tempTable := *new
	tempTable.Name = temp

	stmts := []string{
		"PRAGMA foreign_keys = OFF",
		"BEGIN TRANSACTION",
		g.CreateTable(&tempTable),
	}

	if copyStmt := g.copyData(old, new, temp); copyStmt != "" {
		stmts = append(stmts, copyStmt)
	}

	stmts = append(stmts,
		g.DropTable(old.Name),
		g.RenameTable(temp, new.Name),
	)

	for i := range new.Indexes {
		stmts = append(stmts, g.AddIndex(new.Name, &new.Indexes[i]))
	}

	stmts = append(stmts,
		"COMMIT",
		"PRAGMA foreign_keys = ON",
	)
	return stmts
}

// copyData builds the INSERT INTO ... SELECT moving rows into the swap
// table. Only columns present in both shapes are copied (renames follow
// their RenamedFrom link); dropped columns are omitted and added columns
// take their default.
func (g *SQLiteGenerator) copyData(old, new *schema.Table, temp string) string {
	var destCols, srcCols []string
	for i := range new.Columns {
		c := &new.Columns[i]
		src := c.Name
		if old.Column(src) == nil {
			if c.RenamedFrom != "" && old.Column(c.RenamedFrom) != nil {
				src = c.RenamedFrom
			} else {
				continue // added column, filled by its default
			}
		}
		destCols = append(destCols, g.QuoteIdent(c.Name))
		srcCols = append(srcCols, g.QuoteIdent(src))
	}
	if len(destCols) == 0 {
		return ""
	}
	return fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s",
		g.QuoteIdent(temp),
		strings.Join(destCols, ", "),
		strings.Join(srcCols, ", "),
		g.QuoteIdent(old.Name))
}
