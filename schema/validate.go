package schema

import "strings"

// Validate checks a schema snapshot and collects every problem it finds.
// Checked: name uniqueness across tables, enums and views; column name
// uniqueness within a table; constraint and index column references; empty
// CHECK expressions; duplicate UNIQUE definitions (warning); view dependency
// references and cycles; enum type references.
func Validate(s *Schema) Diagnostics {
	diags := NewDiagnostics()

	names := make(map[string]string) // name -> kind
	for _, t := range s.Tables {
		if kind, dup := names[t.Name]; dup {
			diags.PushError(t.Name, "name already used by a %s", kind)
		}
		names[t.Name] = "table"
	}
	for _, e := range s.Enums {
		if kind, dup := names[e.Name]; dup {
			diags.PushError(e.Name, "name already used by a %s", kind)
		}
		names[e.Name] = "enum"
		if len(e.Values) == 0 {
			diags.PushError(e.Name, "enum has no values")
		}
	}
	for _, v := range s.Views {
		if kind, dup := names[v.Name]; dup {
			diags.PushError(v.Name, "name already used by a %s", kind)
		}
		names[v.Name] = "view"
	}

	for i := range s.Tables {
		validateTable(s, &s.Tables[i], &diags)
	}
	validateViews(s, &diags)

	return diags
}

func validateTable(s *Schema, t *Table, diags *Diagnostics) {
	if len(t.Columns) == 0 {
		diags.PushError(t.Name, "table has no columns")
	}

	columns := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if columns[c.Name] {
			diags.PushError(t.Name, "duplicate column %q", c.Name)
		}
		columns[c.Name] = true
		if c.Type.Kind == TypeEnum && c.Type.EnumName != "" && s.Enum(c.Type.EnumName) == nil {
			diags.PushError(t.Name, "column %q references unknown enum %q", c.Name, c.Type.EnumName)
		}
	}

	seenUnique := make(map[string]bool)
	for i := range t.Constraints {
		c := &t.Constraints[i]
		for _, col := range c.Columns {
			if !columns[col] {
				diags.PushError(t.Name, "%s constraint references unknown column %q", c.Kind, col)
			}
		}
		switch c.Kind {
		case ConstraintCheck:
			if NormalizeExpression(c.Expression) == "" {
				diags.PushError(t.Name, "CHECK constraint on (%s) has an empty expression", joinColumns(c.Columns))
			}
		case ConstraintUnique:
			key := c.Key()
			if seenUnique[key] {
				diags.PushWarning(t.Name, "duplicate UNIQUE constraint on (%s)", joinColumns(c.Columns))
			}
			seenUnique[key] = true
		case ConstraintForeignKey:
			ref := s.Table(c.ReferencedTable)
			if ref == nil {
				diags.PushError(t.Name, "FOREIGN KEY references unknown table %q", c.ReferencedTable)
				continue
			}
			for _, col := range c.ReferencedColumns {
				if ref.Column(col) == nil {
					diags.PushError(t.Name, "FOREIGN KEY references unknown column %q.%q", c.ReferencedTable, col)
				}
			}
		}
	}

	for _, idx := range t.Indexes {
		for _, col := range idx.Columns {
			if !columns[col] {
				diags.PushError(t.Name, "index %q references unknown column %q", idx.Name, col)
			}
		}
	}
}

func validateViews(s *Schema, diags *Diagnostics) {
	for _, v := range s.Views {
		if NormalizeExpression(v.Definition) == "" {
			diags.PushError(v.Name, "view definition is empty")
		}
		for _, dep := range v.DependsOn {
			if s.Table(dep) == nil && s.View(dep) == nil {
				diags.PushError(v.Name, "depends on unknown table or view %q", dep)
			}
		}
	}
	if _, err := ResolveViewOrder(s.Views); err != nil {
		if cycle, ok := err.(*CycleError); ok {
			for _, name := range cycle.Views {
				diags.PushError(name, "view participates in a dependency cycle (%s)", joinColumns(cycle.Views))
			}
		}
	}
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
