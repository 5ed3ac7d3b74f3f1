package diff

import (
	"github.com/satishbabariya/schemaflow/schema"
)

// compareTables diffs two versions of one table. renamedFrom is the previous
// table name when the comparison follows a rename.
func compareTables(prev, next *schema.Table, renamedFrom string) TableDiff {
	td := TableDiff{
		Name:        next.Name,
		RenamedFrom: renamedFrom,
		Old:         *prev,
		New:         *next,
	}

	compareColumns(prev, next, &td)
	compareIndexes(prev, next, &td)
	compareConstraints(prev, next, &td)

	return td
}

func compareColumns(prev, next *schema.Table, td *TableDiff) {
	consumed := make(map[string]bool)

	for i := range next.Columns {
		nextCol := &next.Columns[i]

		if prevCol := prev.Column(nextCol.Name); prevCol != nil {
			consumed[prevCol.Name] = true
			if cd := compareColumn(prevCol, nextCol, ""); cd.DiffersInSomething() {
				td.ModifiedColumns = append(td.ModifiedColumns, cd)
			}
			continue
		}

		// Explicit column rename, possibly combined with other changes. One
		// modify+rename record avoids the destructive add+remove reading.
		if nextCol.RenamedFrom != "" {
			if prevCol := prev.Column(nextCol.RenamedFrom); prevCol != nil && next.Column(nextCol.RenamedFrom) == nil {
				consumed[prevCol.Name] = true
				td.ModifiedColumns = append(td.ModifiedColumns, compareColumn(prevCol, nextCol, prevCol.Name))
				continue
			}
		}

		td.AddedColumns = append(td.AddedColumns, *nextCol)
	}

	for i := range prev.Columns {
		prevCol := &prev.Columns[i]
		if !consumed[prevCol.Name] && next.Column(prevCol.Name) == nil {
			td.RemovedColumns = append(td.RemovedColumns, *prevCol)
		}
	}
}

func compareColumn(prev, next *schema.Column, renamedFrom string) ColumnDiff {
	cd := ColumnDiff{
		Name:        next.Name,
		RenamedFrom: renamedFrom,
		Old:         *prev,
		New:         *next,
	}
	if !prev.Type.Equal(next.Type) {
		cd.TypeChanged = true
	}
	if prev.Nullable != next.Nullable {
		cd.NullableChanged = true
	}
	if !defaultsMatch(prev.Default, next.Default) {
		cd.DefaultChanged = true
	}
	if prev.AutoIncrement != next.AutoIncrement {
		cd.AutoIncrementChanged = true
	}
	return cd
}

func defaultsMatch(prev, next *string) bool {
	if prev == nil && next == nil {
		return true
	}
	if prev == nil || next == nil {
		return false
	}
	return *prev == *next
}

func compareIndexes(prev, next *schema.Table, td *TableDiff) {
	// Indexes compare whole: a changed index surfaces as drop+add.
	for i := range next.Indexes {
		nextIdx := &next.Indexes[i]
		if !tableHasIndex(prev, nextIdx) {
			td.AddedIndexes = append(td.AddedIndexes, *nextIdx)
		}
	}
	for i := range prev.Indexes {
		prevIdx := &prev.Indexes[i]
		if !tableHasIndex(next, prevIdx) {
			td.RemovedIndexes = append(td.RemovedIndexes, *prevIdx)
		}
	}
}

func tableHasIndex(t *schema.Table, idx *schema.Index) bool {
	for i := range t.Indexes {
		if t.Indexes[i].Equal(idx) {
			return true
		}
	}
	return false
}

// compareConstraints matches constraints structurally: kind plus columns,
// plus the reference for foreign keys and the normalized expression for
// checks. Added constraints keep the new schema's insertion order, removed
// constraints the old schema's.
func compareConstraints(prev, next *schema.Table, td *TableDiff) {
	prevKeys := make(map[string]bool, len(prev.Constraints))
	for i := range prev.Constraints {
		prevKeys[prev.Constraints[i].Key()] = true
	}
	nextKeys := make(map[string]bool, len(next.Constraints))
	for i := range next.Constraints {
		nextKeys[next.Constraints[i].Key()] = true
	}

	for i := range next.Constraints {
		c := &next.Constraints[i]
		if !prevKeys[c.Key()] {
			td.AddedConstraints = append(td.AddedConstraints, *c)
		}
	}
	for i := range prev.Constraints {
		c := &prev.Constraints[i]
		if !nextKeys[c.Key()] {
			td.RemovedConstraints = append(td.RemovedConstraints, *c)
		}
	}
}
