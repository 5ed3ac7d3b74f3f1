package diff

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/schemaflow/schema"
)

// Notice is one entry in the destructive-change report. Non-destructive
// structural changes (constraint add/remove) appear in the same report so the
// policy gate sees one consistent change list; the gate, not this package,
// decides whether to block.
type Notice struct {
	Change      string
	Table       string
	Destructive bool
	Warning     string
}

// Classify annotates the diff with its destructive-change report and returns
// the same diff for chaining. Destructive by default: table removal, column
// removal, narrowing type changes, view removal, enum removal.
func Classify(d *SchemaDiff) *SchemaDiff {
	for _, t := range d.RemovedTables {
		d.Notices = append(d.Notices, Notice{
			Change:      fmt.Sprintf("drop table %q", t.Name),
			Table:       t.Name,
			Destructive: true,
			Warning:     "dropping the table deletes all of its data",
		})
	}

	for i := range d.ModifiedTables {
		td := &d.ModifiedTables[i]
		for _, c := range td.RemovedColumns {
			d.Notices = append(d.Notices, Notice{
				Change:      fmt.Sprintf("drop column %q.%q", td.Name, c.Name),
				Table:       td.Name,
				Destructive: true,
				Warning:     "dropping the column deletes all data stored in it",
			})
		}
		for j := range td.ModifiedColumns {
			cd := &td.ModifiedColumns[j]
			if !cd.TypeChanged {
				if kinds := columnAttrChanges(cd); len(kinds) > 0 {
					d.Notices = append(d.Notices, Notice{
						Change: fmt.Sprintf("alter column %q.%q (%s)",
							td.Name, cd.Name, strings.Join(kinds, ", ")),
						Table: td.Name,
					})
				}
				continue
			}
			if cd.Old.Type.Narrows(cd.New.Type) {
				d.Notices = append(d.Notices, Notice{
					Change: fmt.Sprintf("change type of %q.%q from %s to %s",
						td.Name, cd.Name, cd.Old.Type, cd.New.Type),
					Table:       td.Name,
					Destructive: true,
					Warning:     "the new type cannot represent every current value",
				})
			} else {
				d.Notices = append(d.Notices, Notice{
					Change: fmt.Sprintf("change type of %q.%q from %s to %s",
						td.Name, cd.Name, cd.Old.Type, cd.New.Type),
					Table: td.Name,
				})
			}
		}
		for _, c := range td.AddedConstraints {
			d.Notices = append(d.Notices, Notice{
				Change: fmt.Sprintf("add %s constraint on %q (%s)",
					c.Kind, td.Name, constraintColumns(&c)),
				Table: td.Name,
			})
		}
		for _, c := range td.RemovedConstraints {
			d.Notices = append(d.Notices, Notice{
				Change: fmt.Sprintf("drop %s constraint on %q (%s)",
					c.Kind, td.Name, constraintColumns(&c)),
				Table: td.Name,
			})
		}
	}

	for _, v := range d.RemovedViews {
		d.Notices = append(d.Notices, Notice{
			Change:      fmt.Sprintf("drop view %q", v.Name),
			Table:       v.Name,
			Destructive: true,
			Warning:     "dropping the view breaks anything that selects from it",
		})
	}

	for _, e := range d.RemovedEnums {
		d.Notices = append(d.Notices, Notice{
			Change:      fmt.Sprintf("drop enum %q", e.Name),
			Table:       e.Name,
			Destructive: true,
			Warning:     "dropping the type breaks columns that still use it",
		})
	}
	for i := range d.ModifiedEnums {
		ed := &d.ModifiedEnums[i]
		if len(ed.RemovedValues) > 0 {
			d.Notices = append(d.Notices, Notice{
				Change:      fmt.Sprintf("remove values from enum %q", ed.Name),
				Table:       ed.Name,
				Destructive: true,
				Warning:     "rows holding a removed value become unrepresentable",
			})
		}
	}

	return d
}

// HasDestructiveChanges reports whether any notice is destructive.
func (d *SchemaDiff) HasDestructiveChanges() bool {
	for _, n := range d.Notices {
		if n.Destructive {
			return true
		}
	}
	return false
}

func constraintColumns(c *schema.Constraint) string {
	return strings.Join(c.Columns, ", ")
}

// columnAttrChanges lists the attribute-level changes of a column whose type
// is unchanged.
func columnAttrChanges(cd *ColumnDiff) []string {
	var kinds []string
	if cd.NullableChanged {
		kinds = append(kinds, "nullable")
	}
	if cd.DefaultChanged {
		kinds = append(kinds, "default")
	}
	if cd.AutoIncrementChanged {
		kinds = append(kinds, "auto increment")
	}
	return kinds
}
