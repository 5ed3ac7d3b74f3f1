// Package planner orchestrates migration generation: it stages the diff into
// a fixed operation order, resolves cross-stage side effects (a SQLite table
// rebuilt for a type change must not be rebuilt again for a constraint
// change) and emits the up and down statement lists.
package planner

import (
	"fmt"

	"github.com/satishbabariya/schemaflow/internal/debug"
	"github.com/satishbabariya/schemaflow/migrate/diff"
	"github.com/satishbabariya/schemaflow/migrate/sqlgen"
	"github.com/satishbabariya/schemaflow/schema"
)

// Plan is a complete, internally consistent migration pair. Up applies the
// change, Down reconstructs the previous schema shape exactly.
type Plan struct {
	Dialect string
	Up      []string
	Down    []string
	// Diff is the classified change set the plan was generated from,
	// consumed by the destructive-change policy gate.
	Diff *diff.SchemaDiff
}

// StageError identifies the pipeline stage and table a generation run failed
// on. Any stage failure is fatal: no partial plan is returned.
type StageError struct {
	Stage string
	Table string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed for %q: %v", e.Stage, e.Table, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Planner generates migration plans for one dialect.
type Planner struct {
	dialect string
	gen     sqlgen.Generator
	sqlite  *sqlgen.SQLiteGenerator // non-nil only for the sqlite dialect
}

// NewPlanner creates a planner for the given dialect.
func NewPlanner(dialect string) (*Planner, error) {
	gen, err := sqlgen.New(dialect)
	if err != nil {
		return nil, err
	}
	p := &Planner{dialect: gen.Dialect(), gen: gen}
	if sg, ok := gen.(*sqlgen.SQLiteGenerator); ok {
		p.sqlite = sg
	}
	return p, nil
}

// Plan compares the two snapshots and generates the up and down statement
// lists. The down direction reuses the same stage logic with old and new
// swapped, so a rollback rebuilds the pre-change table shapes exactly.
func (p *Planner) Plan(old, new *schema.Schema) (*Plan, error) {
	d := diff.Classify(diff.Detect(old, new))

	up, err := p.generate(d, old, new)
	if err != nil {
		return nil, err
	}

	// Rename annotations live on the new snapshot, so the reverse diff needs
	// them mirrored onto the old one or every rename would come back as a
	// destructive drop+create.
	reversed := annotateReverseRenames(old, new)
	down, err := p.generate(diff.Detect(new, reversed), new, reversed)
	if err != nil {
		return nil, err
	}

	debug.Debug("planned migration", "dialect", p.dialect, "up", len(up), "down", len(down))
	return &Plan{Dialect: p.dialect, Up: up, Down: down, Diff: d}, nil
}

// generate runs the six pipeline stages over one diff direction. The
// "already rebuilt" marker set is scoped to this run, never shared.
func (p *Planner) generate(d *diff.SchemaDiff, oldS, newS *schema.Schema) ([]string, error) {
	var stmts []string
	rebuilt := make(map[string]bool)

	// Enums whose value sets changed. PostgreSQL alters the standalone type;
	// the other dialects carry the values inside every column definition, so
	// those columns must be rewritten.
	changedEnums := make(map[string]bool)
	if p.dialect != "postgres" {
		for i := range d.ModifiedEnums {
			ed := &d.ModifiedEnums[i]
			if len(ed.AddedValues) > 0 || len(ed.RemovedValues) > 0 {
				changedEnums[ed.Name] = true
			}
		}
	}

	// Recreation on SQLite folds column and index work into the rebuild, so
	// stages 2 and 4 skip tables a later stage will recreate. A changed enum
	// forces the rebuild too, since its values live in the table definition.
	willRecreate := func(td *diff.TableDiff) bool {
		if p.sqlite == nil {
			return false
		}
		return td.HasTypeChanges() || td.HasConstraintChanges() ||
			len(enumColumns(&td.New, changedEnums)) > 0
	}

	// Enum types exist before any table references them.
	for i := range d.AddedEnums {
		appendStmt(&stmts, p.gen.CreateEnum(&d.AddedEnums[i]))
	}
	for i := range d.ModifiedEnums {
		for _, v := range d.ModifiedEnums[i].AddedValues {
			appendStmt(&stmts, p.gen.AddEnumValue(d.ModifiedEnums[i].Name, v))
		}
	}

	// Stage 1: table create/drop, renames first so later stages address
	// tables by their new name.
	for _, r := range d.RenamedTables {
		appendStmt(&stmts, p.gen.RenameTable(r.From, r.To))
	}
	for i := range d.AddedTables {
		t := p.withEnumValues(newS, d.AddedTables[i])
		appendStmt(&stmts, p.gen.CreateTable(&t))
		for j := range t.Indexes {
			appendStmt(&stmts, p.gen.AddIndex(t.Name, &t.Indexes[j]))
		}
	}
	for i := range d.RemovedTables {
		appendStmt(&stmts, p.gen.DropTable(d.RemovedTables[i].Name))
	}

	// Stage 2: column add/drop for tables not being fully recreated.
	for i := range d.ModifiedTables {
		td := &d.ModifiedTables[i]
		if willRecreate(td) {
			continue
		}
		for j := range td.ModifiedColumns {
			cd := &td.ModifiedColumns[j]
			if cd.RenamedFrom != "" {
				appendStmt(&stmts, p.gen.RenameColumn(td.Name, cd.RenamedFrom, cd.Name))
			}
		}
		for j := range td.AddedColumns {
			col := p.withEnumValuesColumn(newS, td.AddedColumns[j])
			appendStmt(&stmts, p.gen.AddColumn(td.Name, &col))
		}
		for j := range td.RemovedColumns {
			appendStmt(&stmts, p.gen.DropColumn(td.Name, td.RemovedColumns[j].Name))
		}
	}

	// Stage 3: column type changes. SQLite rebuilds the whole table; the
	// other dialects alter in place.
	for i := range d.ModifiedTables {
		td := &d.ModifiedTables[i]
		if !td.HasTypeChanges() {
			continue
		}
		if p.sqlite != nil {
			recreation, err := p.recreate(td, newS, "types", rebuilt)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, recreation...)
			continue
		}
		for j := range td.ModifiedColumns {
			cd := &td.ModifiedColumns[j]
			if !cd.TypeChanged {
				continue
			}
			col := p.withEnumValuesColumn(newS, cd.New)
			stmt, ok := p.gen.AlterColumnType(td.Name, &col)
			if !ok {
				return nil, &StageError{Stage: "types", Table: td.Name,
					Err: fmt.Errorf("dialect %s cannot alter column %q in place", p.dialect, cd.Name)}
			}
			appendStmt(&stmts, stmt)
		}
	}

	// Stage 4: index add/drop. Recreated tables get their indexes back as
	// part of the rebuild.
	for i := range d.ModifiedTables {
		td := &d.ModifiedTables[i]
		if rebuilt[td.Name] || willRecreate(td) {
			continue
		}
		for j := range td.RemovedIndexes {
			appendStmt(&stmts, p.gen.DropIndex(td.Name, &td.RemovedIndexes[j]))
		}
		for j := range td.AddedIndexes {
			appendStmt(&stmts, p.gen.AddIndex(td.Name, &td.AddedIndexes[j]))
		}
	}

	// Stage 5: constraint add/drop. On SQLite this triggers recreation
	// unless stage 3 already rebuilt the table.
	for i := range d.ModifiedTables {
		td := &d.ModifiedTables[i]
		if !td.HasConstraintChanges() {
			continue
		}
		if p.sqlite != nil {
			if rebuilt[td.Name] {
				continue
			}
			recreation, err := p.recreate(td, newS, "constraints", rebuilt)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, recreation...)
			continue
		}
		// A constraint created before a rename keeps the name generated for
		// the old table, so drops in the same diff address it by that name.
		namedFor := td.Name
		if td.RenamedFrom != "" {
			namedFor = td.RenamedFrom
		}
		for j := range td.RemovedConstraints {
			appendStmt(&stmts, p.gen.DropConstraint(td.Name, namedFor, &td.RemovedConstraints[j]))
		}
		for j := range td.AddedConstraints {
			appendStmt(&stmts, p.gen.AddConstraint(td.Name, &td.AddedConstraints[j]))
		}
	}

	// Enum value changes on the dialects that inline enum values: every
	// column typed with a changed enum is rewritten, by table recreation on
	// SQLite and by restating the column definition on MySQL.
	if len(changedEnums) > 0 {
		enumStmts, err := p.rewriteEnumColumns(d, oldS, newS, changedEnums, rebuilt)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, enumStmts...)
	}

	// Stage 6: views. Drops run in reverse dependency order of the old
	// schema, creates and updates in forward order of the new schema.
	viewStmts, err := p.generateViews(d, oldS, newS)
	if err != nil {
		return nil, err
	}
	stmts = append(stmts, viewStmts...)

	// Enum types are dropped last, after every table and view that could
	// reference them is gone.
	for i := range d.RemovedEnums {
		appendStmt(&stmts, p.gen.DropEnum(d.RemovedEnums[i].Name))
	}

	return stmts, nil
}

// recreate emits the single-rebuild sequence for one SQLite table and marks
// it so no later stage rebuilds it again.
func (p *Planner) recreate(td *diff.TableDiff, newS *schema.Schema, stage string, rebuilt map[string]bool) ([]string, error) {
	if len(td.Old.Columns) == 0 || len(td.New.Columns) == 0 {
		return nil, &StageError{Stage: stage, Table: td.Name,
			Err: fmt.Errorf("missing table definition required for recreation")}
	}
	// After stage 1 the live table already carries the new name.
	liveOld := td.Old
	liveOld.Name = td.Name
	newTable := p.withEnumValues(newS, td.New)

	rebuilt[td.Name] = true
	return p.sqlite.RecreateTable(&liveOld, &newTable), nil
}

// rewriteEnumColumns handles enum value changes for MySQL and SQLite, where
// the values are part of each column definition. Tables already rebuilt in
// this run carry the new values and are skipped; so are tables created in
// this run.
func (p *Planner) rewriteEnumColumns(d *diff.SchemaDiff, oldS, newS *schema.Schema, changed, rebuilt map[string]bool) ([]string, error) {
	var stmts []string

	created := make(map[string]bool, len(d.AddedTables))
	for i := range d.AddedTables {
		created[d.AddedTables[i].Name] = true
	}

	for i := range newS.Tables {
		t := &newS.Tables[i]
		if created[t.Name] {
			continue
		}
		cols := enumColumns(t, changed)
		if len(cols) == 0 {
			continue
		}

		if p.sqlite != nil {
			if rebuilt[t.Name] {
				continue
			}
			prev := previousTable(oldS, t)
			if prev == nil {
				return nil, &StageError{Stage: "enums", Table: t.Name,
					Err: fmt.Errorf("missing previous table definition required for recreation")}
			}
			// After stage 1 the live table already carries the new name.
			liveOld := *prev
			liveOld.Name = t.Name
			newTable := p.withEnumValues(newS, *t)
			rebuilt[t.Name] = true
			stmts = append(stmts, p.sqlite.RecreateTable(&liveOld, &newTable)...)
			continue
		}

		for _, c := range cols {
			if typeAlreadyChanged(d, t.Name, c.Name) {
				continue // stage 3 restated this column with the new values
			}
			col := p.withEnumValuesColumn(newS, *c)
			stmt, ok := p.gen.AlterColumnType(t.Name, &col)
			if !ok {
				return nil, &StageError{Stage: "enums", Table: t.Name,
					Err: fmt.Errorf("dialect %s cannot rewrite column %q in place", p.dialect, c.Name)}
			}
			appendStmt(&stmts, stmt)
		}
	}

	return stmts, nil
}

// enumColumns returns the columns of t typed with one of the changed enums.
func enumColumns(t *schema.Table, changed map[string]bool) []*schema.Column {
	var cols []*schema.Column
	for i := range t.Columns {
		c := &t.Columns[i]
		if c.Type.Kind == schema.TypeEnum && changed[c.Type.EnumName] {
			cols = append(cols, c)
		}
	}
	return cols
}

// previousTable finds the old-snapshot table matching t, following an
// explicit rename.
func previousTable(oldS *schema.Schema, t *schema.Table) *schema.Table {
	if prev := oldS.Table(t.Name); prev != nil {
		return prev
	}
	if t.RenamedFrom != "" {
		return oldS.Table(t.RenamedFrom)
	}
	return nil
}

func typeAlreadyChanged(d *diff.SchemaDiff, table, column string) bool {
	for i := range d.ModifiedTables {
		td := &d.ModifiedTables[i]
		if td.Name != table {
			continue
		}
		for j := range td.ModifiedColumns {
			cd := &td.ModifiedColumns[j]
			if cd.Name == column && cd.TypeChanged {
				return true
			}
		}
	}
	return false
}

func (p *Planner) generateViews(d *diff.SchemaDiff, oldS, newS *schema.Schema) ([]string, error) {
	var stmts []string

	dropSet := make(map[string]bool)
	for i := range d.RemovedViews {
		dropSet[d.RemovedViews[i].Name] = true
	}
	for _, r := range d.RenamedViews {
		dropSet[r.From] = true
	}
	for i := range d.ModifiedViews {
		if d.ModifiedViews[i].RenamedFrom != "" {
			dropSet[d.ModifiedViews[i].RenamedFrom] = true
		}
	}

	if len(dropSet) > 0 {
		oldOrder, err := schema.ResolveViewOrder(oldS.Views)
		if err != nil {
			return nil, &StageError{Stage: "views", Table: "", Err: err}
		}
		for i := len(oldOrder) - 1; i >= 0; i-- {
			if dropSet[oldOrder[i]] {
				appendStmt(&stmts, p.gen.DropView(oldOrder[i]))
			}
		}
	}

	createSet := make(map[string]bool)
	replaceSet := make(map[string]bool)
	for i := range d.AddedViews {
		createSet[d.AddedViews[i].Name] = true
	}
	for _, r := range d.RenamedViews {
		createSet[r.To] = true
	}
	for i := range d.ModifiedViews {
		if d.ModifiedViews[i].RenamedFrom != "" {
			createSet[d.ModifiedViews[i].Name] = true
		} else {
			replaceSet[d.ModifiedViews[i].Name] = true
		}
	}

	if len(createSet) > 0 || len(replaceSet) > 0 {
		newOrder, err := schema.ResolveViewOrder(newS.Views)
		if err != nil {
			return nil, &StageError{Stage: "views", Table: "", Err: err}
		}
		for _, name := range newOrder {
			if !createSet[name] && !replaceSet[name] {
				continue
			}
			v := newS.View(name)
			if v == nil {
				return nil, &StageError{Stage: "views", Table: name,
					Err: fmt.Errorf("missing view definition")}
			}
			for _, stmt := range p.gen.CreateOrReplaceView(v) {
				appendStmt(&stmts, stmt)
			}
		}
	}

	return stmts, nil
}

// withEnumValues returns a copy of the table with named enum references
// materialized into inline values, which MySQL and SQLite need since neither
// has standalone enum types.
func (p *Planner) withEnumValues(s *schema.Schema, t schema.Table) schema.Table {
	if p.dialect == "postgres" {
		return t
	}
	cols := make([]schema.Column, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = p.withEnumValuesColumn(s, c)
	}
	t.Columns = cols
	return t
}

func (p *Planner) withEnumValuesColumn(s *schema.Schema, c schema.Column) schema.Column {
	if p.dialect == "postgres" {
		return c
	}
	if c.Type.Kind == schema.TypeEnum && c.Type.EnumName != "" && len(c.Type.Values) == 0 {
		if e := s.Enum(c.Type.EnumName); e != nil {
			c.Type.Values = e.Values
		}
	}
	return c
}

// annotateReverseRenames returns a copy of old whose RenamedFrom fields
// describe the renames of the new snapshot in reverse. The old snapshot's own
// annotations refer to even older history and are cleared, they mean nothing
// for the down direction.
func annotateReverseRenames(old, new *schema.Schema) *schema.Schema {
	ann := &schema.Schema{
		Tables: make([]schema.Table, len(old.Tables)),
		Enums:  old.Enums,
		Views:  make([]schema.View, len(old.Views)),
	}
	copy(ann.Tables, old.Tables)
	copy(ann.Views, old.Views)

	for i := range ann.Tables {
		ann.Tables[i].RenamedFrom = ""
		cols := make([]schema.Column, len(ann.Tables[i].Columns))
		copy(cols, ann.Tables[i].Columns)
		for j := range cols {
			cols[j].RenamedFrom = ""
		}
		ann.Tables[i].Columns = cols
	}
	for i := range ann.Views {
		ann.Views[i].RenamedFrom = ""
	}

	for i := range new.Tables {
		nt := &new.Tables[i]
		oldName := nt.Name
		if nt.RenamedFrom != "" && old.Table(nt.RenamedFrom) != nil && new.Table(nt.RenamedFrom) == nil {
			oldName = nt.RenamedFrom
		}
		at := ann.Table(oldName)
		if at == nil {
			continue
		}
		if oldName != nt.Name {
			at.RenamedFrom = nt.Name
		}
		for j := range nt.Columns {
			nc := &nt.Columns[j]
			if nc.RenamedFrom == "" {
				continue
			}
			if ac := at.Column(nc.RenamedFrom); ac != nil && nt.Column(nc.RenamedFrom) == nil {
				ac.RenamedFrom = nc.Name
			}
		}
	}

	for i := range new.Views {
		nv := &new.Views[i]
		if nv.RenamedFrom == "" {
			continue
		}
		if av := ann.View(nv.RenamedFrom); av != nil && new.View(nv.RenamedFrom) == nil {
			av.RenamedFrom = nv.Name
		}
	}

	return ann
}

func appendStmt(stmts *[]string, stmt string) {
	if stmt != "" {
		*stmts = append(*stmts, stmt)
	}
}
