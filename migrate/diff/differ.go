package diff

import (
	"github.com/satishbabariya/schemaflow/schema"
)

// Detect compares an old and a new schema snapshot and returns the full
// structural delta. It is pure, deterministic and total: identical inputs
// yield an empty diff, never an error.
func Detect(old, new *schema.Schema) *SchemaDiff {
	d := &SchemaDiff{}

	detectTables(old, new, d)
	detectEnums(old, new, d)
	detectViews(old, new, d)

	return d
}

func detectTables(old, new *schema.Schema, d *SchemaDiff) {
	consumed := make(map[string]bool)

	// Iterate new tables in declaration order so additions and modifications
	// come out in snapshot order.
	for i := range new.Tables {
		next := &new.Tables[i]

		if prev := old.Table(next.Name); prev != nil {
			consumed[prev.Name] = true
			td := compareTables(prev, next, "")
			if !td.IsEmpty() {
				d.ModifiedTables = append(d.ModifiedTables, td)
			}
			continue
		}

		// Explicit rename: the previous name exists in old and was not kept
		// in new. A renamed table that also changed stays one record.
		if next.RenamedFrom != "" {
			if prev := old.Table(next.RenamedFrom); prev != nil && new.Table(next.RenamedFrom) == nil {
				consumed[prev.Name] = true
				d.RenamedTables = append(d.RenamedTables, TableRename{From: prev.Name, To: next.Name})
				td := compareTables(prev, next, prev.Name)
				if !td.IsEmpty() {
					d.ModifiedTables = append(d.ModifiedTables, td)
				}
				continue
			}
		}

		d.AddedTables = append(d.AddedTables, *next)
	}

	for i := range old.Tables {
		prev := &old.Tables[i]
		if !consumed[prev.Name] && new.Table(prev.Name) == nil {
			d.RemovedTables = append(d.RemovedTables, *prev)
		}
	}
}

func detectEnums(old, new *schema.Schema, d *SchemaDiff) {
	for i := range new.Enums {
		next := &new.Enums[i]
		prev := old.Enum(next.Name)
		if prev == nil {
			d.AddedEnums = append(d.AddedEnums, *next)
			continue
		}
		if prev.Equal(next) {
			continue
		}
		ed := EnumDiff{Name: next.Name, Old: *prev, New: *next}
		prevValues := make(map[string]bool, len(prev.Values))
		for _, v := range prev.Values {
			prevValues[v] = true
		}
		nextValues := make(map[string]bool, len(next.Values))
		for _, v := range next.Values {
			nextValues[v] = true
		}
		for _, v := range next.Values {
			if !prevValues[v] {
				ed.AddedValues = append(ed.AddedValues, v)
			}
		}
		for _, v := range prev.Values {
			if !nextValues[v] {
				ed.RemovedValues = append(ed.RemovedValues, v)
			}
		}
		d.ModifiedEnums = append(d.ModifiedEnums, ed)
	}
	for i := range old.Enums {
		prev := &old.Enums[i]
		if new.Enum(prev.Name) == nil {
			d.RemovedEnums = append(d.RemovedEnums, *prev)
		}
	}
}

func detectViews(old, new *schema.Schema, d *SchemaDiff) {
	consumed := make(map[string]bool)

	for i := range new.Views {
		next := &new.Views[i]

		if prev := old.View(next.Name); prev != nil {
			consumed[prev.Name] = true
			if !viewDefinitionsEqual(prev, next) {
				d.ModifiedViews = append(d.ModifiedViews, ViewDiff{Name: next.Name, Old: *prev, New: *next})
			}
			continue
		}

		if next.RenamedFrom != "" {
			if prev := old.View(next.RenamedFrom); prev != nil && new.View(next.RenamedFrom) == nil {
				consumed[prev.Name] = true
				if viewDefinitionsEqual(prev, next) {
					d.RenamedViews = append(d.RenamedViews, ViewRename{From: prev.Name, To: next.Name})
				} else {
					// Renamed and modified: one record, not an add+remove pair.
					d.ModifiedViews = append(d.ModifiedViews, ViewDiff{
						Name:        next.Name,
						RenamedFrom: prev.Name,
						Old:         *prev,
						New:         *next,
					})
				}
				continue
			}
		}

		d.AddedViews = append(d.AddedViews, *next)
	}

	for i := range old.Views {
		prev := &old.Views[i]
		if !consumed[prev.Name] && new.View(prev.Name) == nil {
			d.RemovedViews = append(d.RemovedViews, *prev)
		}
	}
}

func viewDefinitionsEqual(prev, next *schema.View) bool {
	return schema.NormalizeExpression(prev.Definition) == schema.NormalizeExpression(next.Definition)
}
