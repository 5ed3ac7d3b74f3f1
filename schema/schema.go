// Package schema defines the declarative schema model: tables, columns,
// constraints, indexes, enums and views. Values are built once per comparison
// and treated as immutable afterwards.
package schema

// Schema is a full snapshot of a database structure. Tables, Enums and Views
// keep their declaration order; names are unique across all three.
type Schema struct {
	Tables []Table
	Enums  []EnumType
	Views  []View
}

// Table represents a database table. Column order is meaningful: it drives
// CREATE TABLE output and SQLite table recreation.
type Table struct {
	Name        string
	Columns     []Column
	Constraints []Constraint
	Indexes     []Index
	// RenamedFrom is the previous table name when the table was renamed.
	// Renames are declared explicitly, never inferred.
	RenamedFrom string
}

// Column represents a table column.
type Column struct {
	Name          string
	Type          ColumnType
	Nullable      bool
	Default       *string
	AutoIncrement bool
	RenamedFrom   string
}

// Index represents a secondary index.
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
}

// EnumType represents a named enumeration type.
type EnumType struct {
	Name   string
	Values []string
}

// View represents a database view. The definition is opaque SQL text;
// dependencies are declared explicitly rather than parsed out of it.
type View struct {
	Name        string
	Definition  string
	DependsOn   []string
	RenamedFrom string
}

// Table returns the table with the given name, or nil.
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Enum returns the enum with the given name, or nil.
func (s *Schema) Enum(name string) *EnumType {
	for i := range s.Enums {
		if s.Enums[i].Name == name {
			return &s.Enums[i]
		}
	}
	return nil
}

// View returns the view with the given name, or nil.
func (s *Schema) View(name string) *View {
	for i := range s.Views {
		if s.Views[i].Name == name {
			return &s.Views[i]
		}
	}
	return nil
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// PrimaryKey returns the table's primary key constraint, or nil.
func (t *Table) PrimaryKey() *Constraint {
	for i := range t.Constraints {
		if t.Constraints[i].Kind == ConstraintPrimaryKey {
			return &t.Constraints[i]
		}
	}
	return nil
}

// Equal reports structural equality of two columns, ignoring RenamedFrom.
func (c *Column) Equal(other *Column) bool {
	if c.Name != other.Name {
		return false
	}
	if !c.Type.Equal(other.Type) {
		return false
	}
	if c.Nullable != other.Nullable {
		return false
	}
	if c.AutoIncrement != other.AutoIncrement {
		return false
	}
	return defaultsEqual(c.Default, other.Default)
}

func defaultsEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// Equal reports structural equality of two indexes.
func (idx *Index) Equal(other *Index) bool {
	if idx.Name != other.Name || idx.IsUnique != other.IsUnique {
		return false
	}
	if len(idx.Columns) != len(other.Columns) {
		return false
	}
	for i, col := range idx.Columns {
		if col != other.Columns[i] {
			return false
		}
	}
	return true
}

// Equal reports equality of two enum types, including value order.
func (e *EnumType) Equal(other *EnumType) bool {
	if e.Name != other.Name || len(e.Values) != len(other.Values) {
		return false
	}
	for i, v := range e.Values {
		if v != other.Values[i] {
			return false
		}
	}
	return true
}
