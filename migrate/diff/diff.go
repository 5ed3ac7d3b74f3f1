// Package diff compares two schema snapshots and produces a structural
// change set. Detection is a pure function of the two Schema values: no
// hidden state, fully reproducible output.
package diff

import (
	"github.com/satishbabariya/schemaflow/schema"
)

// SchemaDiff is the full structural delta between two schemas. Slices keep
// the insertion order of the schema they came from (new for additions, old
// for removals) so downstream generation is deterministic.
type SchemaDiff struct {
	AddedTables    []schema.Table
	RemovedTables  []schema.Table
	RenamedTables  []TableRename
	ModifiedTables []TableDiff

	AddedEnums    []schema.EnumType
	RemovedEnums  []schema.EnumType
	ModifiedEnums []EnumDiff

	AddedViews    []schema.View
	RemovedViews  []schema.View
	ModifiedViews []ViewDiff
	RenamedViews  []ViewRename

	// Notices is filled by Classify.
	Notices []Notice
}

// TableRename records an explicit table rename (declared, not inferred).
type TableRename struct {
	From string
	To   string
}

// TableDiff records every change within a table that exists in both schemas.
// RenamedFrom is set when the table was renamed in the same diff, so a
// renamed-and-modified table stays one record instead of an add+remove pair.
type TableDiff struct {
	Name        string
	RenamedFrom string
	Old         schema.Table
	New         schema.Table

	AddedColumns    []schema.Column
	RemovedColumns  []schema.Column
	ModifiedColumns []ColumnDiff

	AddedIndexes   []schema.Index
	RemovedIndexes []schema.Index

	AddedConstraints   []schema.Constraint
	RemovedConstraints []schema.Constraint
}

// ColumnDiff records changes to a column present in both table versions.
type ColumnDiff struct {
	Name        string
	RenamedFrom string
	Old         schema.Column
	New         schema.Column

	TypeChanged          bool
	NullableChanged      bool
	DefaultChanged       bool
	AutoIncrementChanged bool
}

// DiffersInSomething returns true if any change was detected.
func (c *ColumnDiff) DiffersInSomething() bool {
	return c.TypeChanged || c.NullableChanged || c.DefaultChanged ||
		c.AutoIncrementChanged || c.RenamedFrom != ""
}

// EnumDiff records value-level changes to an enum present in both schemas.
type EnumDiff struct {
	Name          string
	Old           schema.EnumType
	New           schema.EnumType
	AddedValues   []string
	RemovedValues []string
}

// ViewDiff records a changed view definition. RenamedFrom is set when the
// view was renamed in the same diff.
type ViewDiff struct {
	Name        string
	RenamedFrom string
	Old         schema.View
	New         schema.View
}

// ViewRename records a pure view rename with an unchanged definition.
type ViewRename struct {
	From string
	To   string
}

// IsEmpty returns true when the diff carries no change at all.
func (d *SchemaDiff) IsEmpty() bool {
	return len(d.AddedTables) == 0 && len(d.RemovedTables) == 0 &&
		len(d.RenamedTables) == 0 && len(d.ModifiedTables) == 0 &&
		len(d.AddedEnums) == 0 && len(d.RemovedEnums) == 0 &&
		len(d.ModifiedEnums) == 0 &&
		len(d.AddedViews) == 0 && len(d.RemovedViews) == 0 &&
		len(d.ModifiedViews) == 0 && len(d.RenamedViews) == 0
}

// HasTypeChanges returns true if any column in the table changed type.
func (td *TableDiff) HasTypeChanges() bool {
	for i := range td.ModifiedColumns {
		if td.ModifiedColumns[i].TypeChanged {
			return true
		}
	}
	return false
}

// HasConstraintChanges returns true if constraints were added or removed.
func (td *TableDiff) HasConstraintChanges() bool {
	return len(td.AddedConstraints) > 0 || len(td.RemovedConstraints) > 0
}

// IsEmpty returns true when the table diff carries no change.
func (td *TableDiff) IsEmpty() bool {
	return len(td.AddedColumns) == 0 && len(td.RemovedColumns) == 0 &&
		len(td.ModifiedColumns) == 0 &&
		len(td.AddedIndexes) == 0 && len(td.RemovedIndexes) == 0 &&
		!td.HasConstraintChanges()
}
