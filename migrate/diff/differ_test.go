package diff

import (
	"strings"
	"testing"

	"github.com/satishbabariya/schemaflow/schema"
)

func baseSchema() *schema.Schema {
	return &schema.Schema{
		Enums: []schema.EnumType{
			{Name: "post_status", Values: []string{"draft", "published"}},
		},
		Tables: []schema.Table{
			{
				Name: "users",
				Columns: []schema.Column{
					{Name: "id", Type: schema.ColumnType{Kind: schema.TypeSerial}},
					{Name: "email", Type: schema.ColumnType{Kind: schema.TypeVarchar, Length: 255}},
				},
				Constraints: []schema.Constraint{
					{Kind: schema.ConstraintPrimaryKey, Columns: []string{"id"}},
					{Kind: schema.ConstraintUnique, Columns: []string{"email"}},
				},
				Indexes: []schema.Index{
					{Name: "idx_users_email", Columns: []string{"email"}},
				},
			},
			{
				Name: "posts",
				Columns: []schema.Column{
					{Name: "id", Type: schema.ColumnType{Kind: schema.TypeSerial}},
					{Name: "status", Type: schema.ColumnType{Kind: schema.TypeEnum, EnumName: "post_status"}},
				},
				Constraints: []schema.Constraint{
					{Kind: schema.ConstraintPrimaryKey, Columns: []string{"id"}},
				},
			},
		},
		Views: []schema.View{
			{Name: "published_posts", Definition: "SELECT * FROM posts WHERE status = 'published'", DependsOn: []string{"posts"}},
		},
	}
}

func TestDetectIdenticalSchemasIsEmpty(t *testing.T) {
	d := Detect(baseSchema(), baseSchema())
	if !d.IsEmpty() {
		t.Errorf("diff of identical schemas is not empty: %+v", d)
	}
}

func TestDetectAddedAndRemovedTables(t *testing.T) {
	old := baseSchema()
	new := baseSchema()
	new.Tables = append(new.Tables, schema.Table{
		Name:    "tags",
		Columns: []schema.Column{{Name: "id", Type: schema.ColumnType{Kind: schema.TypeSerial}}},
	})
	new.Tables = new.Tables[1:] // drop users

	d := Detect(old, new)
	if len(d.AddedTables) != 1 || d.AddedTables[0].Name != "tags" {
		t.Errorf("AddedTables = %+v", d.AddedTables)
	}
	if len(d.RemovedTables) != 1 || d.RemovedTables[0].Name != "users" {
		t.Errorf("RemovedTables = %+v", d.RemovedTables)
	}
}

func TestDetectTableRenameIsNotDropCreate(t *testing.T) {
	old := baseSchema()
	new := baseSchema()
	new.Tables[0].Name = "accounts"
	new.Tables[0].RenamedFrom = "users"

	d := Detect(old, new)
	if len(d.RenamedTables) != 1 {
		t.Fatalf("RenamedTables = %+v", d.RenamedTables)
	}
	r := d.RenamedTables[0]
	if r.From != "users" || r.To != "accounts" {
		t.Errorf("rename = %+v", r)
	}
	if len(d.AddedTables) != 0 || len(d.RemovedTables) != 0 {
		t.Errorf("rename leaked into add/remove: added=%v removed=%v", d.AddedTables, d.RemovedTables)
	}
}

func TestDetectSameNameWithoutAnnotationIsDropCreate(t *testing.T) {
	// Without renamed_from, a disappearing table plus a new one is exactly
	// a drop and a create. Renames are never inferred.
	old := baseSchema()
	new := baseSchema()
	new.Tables[0].Name = "accounts"

	d := Detect(old, new)
	if len(d.RenamedTables) != 0 {
		t.Errorf("inferred a rename: %+v", d.RenamedTables)
	}
	if len(d.AddedTables) != 1 || len(d.RemovedTables) != 1 {
		t.Errorf("expected drop+create, got added=%v removed=%v", d.AddedTables, d.RemovedTables)
	}
}

func TestDetectRenamedAndModifiedTableIsOneRecord(t *testing.T) {
	old := baseSchema()
	new := baseSchema()
	new.Tables[0].Name = "accounts"
	new.Tables[0].RenamedFrom = "users"
	new.Tables[0].Columns = append(new.Tables[0].Columns,
		schema.Column{Name: "created_at", Type: schema.ColumnType{Kind: schema.TypeTimestamp}})

	d := Detect(old, new)
	if len(d.RenamedTables) != 1 {
		t.Fatalf("RenamedTables = %+v", d.RenamedTables)
	}
	if len(d.ModifiedTables) != 1 {
		t.Fatalf("ModifiedTables = %+v", d.ModifiedTables)
	}
	td := d.ModifiedTables[0]
	if td.RenamedFrom != "users" || td.Name != "accounts" {
		t.Errorf("table diff = %+v", td)
	}
	if len(td.AddedColumns) != 1 || td.AddedColumns[0].Name != "created_at" {
		t.Errorf("AddedColumns = %+v", td.AddedColumns)
	}
}

func TestDetectColumnRenameAndTypeChangeIsOneRecord(t *testing.T) {
	old := baseSchema()
	new := baseSchema()
	new.Tables[0].Columns[1] = schema.Column{
		Name:        "email_address",
		RenamedFrom: "email",
		Type:        schema.ColumnType{Kind: schema.TypeText},
	}

	d := Detect(old, new)
	if len(d.ModifiedTables) != 1 {
		t.Fatalf("ModifiedTables = %+v", d.ModifiedTables)
	}
	td := d.ModifiedTables[0]
	if len(td.ModifiedColumns) != 1 {
		t.Fatalf("ModifiedColumns = %+v", td.ModifiedColumns)
	}
	cd := td.ModifiedColumns[0]
	if cd.RenamedFrom != "email" || cd.Name != "email_address" || !cd.TypeChanged {
		t.Errorf("column diff = %+v", cd)
	}
	if len(td.AddedColumns) != 0 || len(td.RemovedColumns) != 0 {
		t.Errorf("rename leaked into add/remove: %+v", td)
	}
}

func TestDetectConstraintIdentityIsStructural(t *testing.T) {
	// The same unique constraint written in a different position is still
	// the same constraint.
	old := baseSchema()
	new := baseSchema()
	new.Tables[0].Constraints = []schema.Constraint{
		{Kind: schema.ConstraintUnique, Columns: []string{"email"}},
		{Kind: schema.ConstraintPrimaryKey, Columns: []string{"id"}},
	}

	d := Detect(old, new)
	if !d.IsEmpty() {
		t.Errorf("constraint reordering produced a diff: %+v", d)
	}
}

func TestDetectCheckExpressionWhitespaceInsignificant(t *testing.T) {
	old := baseSchema()
	old.Tables[0].Constraints = append(old.Tables[0].Constraints,
		schema.Constraint{Kind: schema.ConstraintCheck, Columns: []string{"email"}, Expression: "email <> ''"})
	new := baseSchema()
	new.Tables[0].Constraints = append(new.Tables[0].Constraints,
		schema.Constraint{Kind: schema.ConstraintCheck, Columns: []string{"email"}, Expression: "email   <>\t''"})

	if d := Detect(old, new); !d.IsEmpty() {
		t.Errorf("whitespace-only expression change produced a diff: %+v", d)
	}
}

func TestDetectChangedIndexIsDropAdd(t *testing.T) {
	old := baseSchema()
	new := baseSchema()
	new.Tables[0].Indexes[0].IsUnique = true

	d := Detect(old, new)
	if len(d.ModifiedTables) != 1 {
		t.Fatalf("ModifiedTables = %+v", d.ModifiedTables)
	}
	td := d.ModifiedTables[0]
	if len(td.AddedIndexes) != 1 || len(td.RemovedIndexes) != 1 {
		t.Errorf("changed index should be drop+add, got %+v", td)
	}
}

func TestDetectEnumValueChanges(t *testing.T) {
	old := baseSchema()
	new := baseSchema()
	new.Enums[0].Values = []string{"draft", "archived"}

	d := Detect(old, new)
	if len(d.ModifiedEnums) != 1 {
		t.Fatalf("ModifiedEnums = %+v", d.ModifiedEnums)
	}
	ed := d.ModifiedEnums[0]
	if len(ed.AddedValues) != 1 || ed.AddedValues[0] != "archived" {
		t.Errorf("AddedValues = %v", ed.AddedValues)
	}
	if len(ed.RemovedValues) != 1 || ed.RemovedValues[0] != "published" {
		t.Errorf("RemovedValues = %v", ed.RemovedValues)
	}
}

func TestDetectViewDefinitionChange(t *testing.T) {
	old := baseSchema()
	new := baseSchema()
	new.Views[0].Definition = "SELECT id FROM posts WHERE status = 'published'"

	d := Detect(old, new)
	if len(d.ModifiedViews) != 1 || d.ModifiedViews[0].Name != "published_posts" {
		t.Errorf("ModifiedViews = %+v", d.ModifiedViews)
	}
}

func TestDetectRenamedAndModifiedView(t *testing.T) {
	old := baseSchema()
	new := baseSchema()
	new.Views[0] = schema.View{
		Name:        "live_posts",
		RenamedFrom: "published_posts",
		Definition:  "SELECT id FROM posts WHERE status = 'published'",
		DependsOn:   []string{"posts"},
	}

	d := Detect(old, new)
	if len(d.RenamedViews) != 0 {
		t.Errorf("rename+modify should be one ViewDiff, got renames %+v", d.RenamedViews)
	}
	if len(d.ModifiedViews) != 1 || d.ModifiedViews[0].RenamedFrom != "published_posts" {
		t.Errorf("ModifiedViews = %+v", d.ModifiedViews)
	}
}

func TestClassifyDestructiveChanges(t *testing.T) {
	old := baseSchema()
	new := baseSchema()
	new.Tables = new.Tables[:1]                                                   // drop posts
	new.Tables[0].Columns[1].Type = schema.ColumnType{Kind: schema.TypeVarchar, Length: 50} // shrink email
	new.Views = nil

	d := Classify(Detect(old, new))
	if !d.HasDestructiveChanges() {
		t.Fatal("expected destructive changes")
	}

	destructive := 0
	for _, n := range d.Notices {
		if n.Destructive {
			destructive++
		}
	}
	// drop table posts, shrink varchar, drop view.
	if destructive != 3 {
		t.Errorf("expected 3 destructive notices, got %d: %+v", destructive, d.Notices)
	}
}

func TestClassifyColumnAttributeChangesAreSurfaced(t *testing.T) {
	// A nullable flip or default change produces no DDL risk, but it must
	// still show up in the report instead of vanishing.
	old := baseSchema()
	new := baseSchema()
	def := "'unknown'"
	new.Tables[0].Columns[1].Nullable = true
	new.Tables[0].Columns[1].Default = &def

	d := Classify(Detect(old, new))
	if d.HasDestructiveChanges() {
		t.Error("attribute-only change must not be destructive")
	}
	if len(d.Notices) != 1 {
		t.Fatalf("notices = %+v", d.Notices)
	}
	n := d.Notices[0]
	if n.Table != "users" ||
		!strings.Contains(n.Change, "nullable") || !strings.Contains(n.Change, "default") {
		t.Errorf("notice = %+v", n)
	}
}

func TestClassifyConstraintChangesAreSurfacedNonDestructive(t *testing.T) {
	old := baseSchema()
	new := baseSchema()
	new.Tables[0].Constraints = new.Tables[0].Constraints[:1] // drop unique

	d := Classify(Detect(old, new))
	if d.HasDestructiveChanges() {
		t.Error("constraint drop must not be destructive")
	}
	if len(d.Notices) != 1 {
		t.Errorf("constraint drop should still be surfaced, notices = %+v", d.Notices)
	}
}
