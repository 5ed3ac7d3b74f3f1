package planner

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/satishbabariya/schemaflow/schema"
)

func snapshot() *schema.Schema {
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
			},
			{
				Name: "posts",
				Columns: []schema.Column{
					{Name: "id", Type: schema.ColumnType{Kind: schema.TypeSerial}},
					{Name: "status", Type: schema.ColumnType{Kind: schema.TypeEnum, EnumName: "post_status"}},
					{Name: "author_id", Type: schema.ColumnType{Kind: schema.TypeInteger}},
				},
				Constraints: []schema.Constraint{
					{Kind: schema.ConstraintPrimaryKey, Columns: []string{"id"}},
					{Kind: schema.ConstraintForeignKey, Columns: []string{"author_id"},
						ReferencedTable: "users", ReferencedColumns: []string{"id"}},
				},
			},
		},
		Views: []schema.View{
			{Name: "published_posts", Definition: "SELECT * FROM posts WHERE status = 'published'", DependsOn: []string{"posts"}},
		},
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	old := snapshot()
	new := snapshot()
	new.Tables[0].Columns = append(new.Tables[0].Columns,
		schema.Column{Name: "name", Type: schema.ColumnType{Kind: schema.TypeText}, Nullable: true})
	new.Views[0].Definition = "SELECT id FROM posts WHERE status = 'published'"

	p, err := NewPlanner("postgres")
	if err != nil {
		t.Fatal(err)
	}

	first, err := p.Plan(old, new)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Plan(snapshot(), new)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first.Up, second.Up) || !reflect.DeepEqual(first.Down, second.Down) {
		t.Error("two runs over the same snapshots disagree")
	}
}

func TestPlanEmptyForIdenticalSnapshots(t *testing.T) {
	p, _ := NewPlanner("postgres")
	plan, err := p.Plan(snapshot(), snapshot())
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Up) != 0 || len(plan.Down) != 0 {
		t.Errorf("up=%v down=%v", plan.Up, plan.Down)
	}
}

func TestPlanEnumCreatedBeforeTables(t *testing.T) {
	new := snapshot()

	p, _ := NewPlanner("postgres")
	plan, err := p.Plan(&schema.Schema{}, new)
	if err != nil {
		t.Fatal(err)
	}

	enumIdx, tableIdx := -1, -1
	for i, stmt := range plan.Up {
		if strings.HasPrefix(stmt, "CREATE TYPE") && enumIdx < 0 {
			enumIdx = i
		}
		if strings.HasPrefix(stmt, "CREATE TABLE") && tableIdx < 0 {
			tableIdx = i
		}
	}
	if enumIdx < 0 || tableIdx < 0 || enumIdx > tableIdx {
		t.Errorf("enum create must precede table create: enum=%d table=%d\n%v", enumIdx, tableIdx, plan.Up)
	}

	// Down drops everything, enum last.
	last := plan.Down[len(plan.Down)-1]
	if !strings.HasPrefix(last, "DROP TYPE") {
		t.Errorf("down must drop the enum last, got %q", last)
	}
}

func TestPlanDownReversesRename(t *testing.T) {
	old := snapshot()
	new := snapshot()
	new.Tables[0].Name = "accounts"
	new.Tables[0].RenamedFrom = "users"

	p, _ := NewPlanner("postgres")
	plan, err := p.Plan(old, new)
	if err != nil {
		t.Fatal(err)
	}

	if len(plan.Up) != 1 || plan.Up[0] != `ALTER TABLE "users" RENAME TO "accounts"` {
		t.Errorf("up = %v", plan.Up)
	}
	if len(plan.Down) != 1 || plan.Down[0] != `ALTER TABLE "accounts" RENAME TO "users"` {
		t.Errorf("down must be the reverse rename, not drop+create: %v", plan.Down)
	}
}

func TestPlanDownReversesColumnRename(t *testing.T) {
	old := snapshot()
	new := snapshot()
	new.Tables[0].Columns[1].Name = "email_address"
	new.Tables[0].Columns[1].RenamedFrom = "email"

	p, _ := NewPlanner("postgres")
	plan, err := p.Plan(old, new)
	if err != nil {
		t.Fatal(err)
	}

	wantUp := `ALTER TABLE "users" RENAME COLUMN "email" TO "email_address"`
	if len(plan.Up) != 1 || plan.Up[0] != wantUp {
		t.Errorf("up = %v", plan.Up)
	}
	wantDown := `ALTER TABLE "users" RENAME COLUMN "email_address" TO "email"`
	if len(plan.Down) != 1 || plan.Down[0] != wantDown {
		t.Errorf("down = %v", plan.Down)
	}
}

func TestPlanSQLiteSingleRebuildPerTable(t *testing.T) {
	// A type change and a constraint change on the same table must produce
	// exactly one recreation sequence.
	old := snapshot()
	new := snapshot()
	new.Tables[0].Columns[1].Type = schema.ColumnType{Kind: schema.TypeText}
	new.Tables[0].Constraints = new.Tables[0].Constraints[:1] // drop unique

	p, _ := NewPlanner("sqlite")
	plan, err := p.Plan(old, new)
	if err != nil {
		t.Fatal(err)
	}

	rebuilds := 0
	for _, stmt := range plan.Up {
		if strings.HasPrefix(stmt, `CREATE TABLE "_schemaflow_new_users"`) {
			rebuilds++
		}
	}
	if rebuilds != 1 {
		t.Errorf("expected exactly 1 rebuild, got %d:\n%s", rebuilds, strings.Join(plan.Up, "\n"))
	}

	// The rebuild carries its own transaction control.
	if plan.Up[0] != "PRAGMA foreign_keys = OFF" {
		t.Errorf("first statement = %q", plan.Up[0])
	}
	if plan.Up[len(plan.Up)-1] != "PRAGMA foreign_keys = ON" {
		t.Errorf("last statement = %q", plan.Up[len(plan.Up)-1])
	}
}

func TestPlanSQLiteConstraintChangeRecreates(t *testing.T) {
	old := snapshot()
	new := snapshot()
	new.Tables[0].Constraints = append(new.Tables[0].Constraints,
		schema.Constraint{Kind: schema.ConstraintCheck, Columns: []string{"email"}, Expression: "email <> ''"})

	p, _ := NewPlanner("sqlite")
	plan, err := p.Plan(old, new)
	if err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(plan.Up, "\n")
	if !strings.Contains(joined, `CREATE TABLE "_schemaflow_new_users"`) {
		t.Errorf("constraint change on sqlite must recreate:\n%s", joined)
	}
	if strings.Contains(joined, "ADD CONSTRAINT") {
		t.Errorf("sqlite must not emit ALTER TABLE ADD CONSTRAINT:\n%s", joined)
	}
}

func TestPlanPostgresConstraintChangeAltersInPlace(t *testing.T) {
	old := snapshot()
	new := snapshot()
	new.Tables[0].Constraints = new.Tables[0].Constraints[:1]

	p, _ := NewPlanner("postgres")
	plan, err := p.Plan(old, new)
	if err != nil {
		t.Fatal(err)
	}

	if len(plan.Up) != 1 || plan.Up[0] != `ALTER TABLE "users" DROP CONSTRAINT IF EXISTS "uq_users_email"` {
		t.Errorf("up = %v", plan.Up)
	}
	if len(plan.Down) != 1 || !strings.Contains(plan.Down[0], `ADD CONSTRAINT "uq_users_email" UNIQUE`) {
		t.Errorf("down = %v", plan.Down)
	}
}

func TestPlanViewDropsBeforeDependencyDrops(t *testing.T) {
	old := snapshot()
	old.Views = append(old.Views, schema.View{
		Name:       "recent_published",
		Definition: "SELECT * FROM published_posts LIMIT 10",
		DependsOn:  []string{"published_posts"},
	})
	new := snapshot()
	new.Views = nil

	p, _ := NewPlanner("postgres")
	plan, err := p.Plan(old, new)
	if err != nil {
		t.Fatal(err)
	}

	// Dependent view drops before the view it reads from.
	first := strings.Index(strings.Join(plan.Up, "\n"), `DROP VIEW IF EXISTS "recent_published"`)
	second := strings.Index(strings.Join(plan.Up, "\n"), `DROP VIEW IF EXISTS "published_posts"`)
	if first < 0 || second < 0 || first > second {
		t.Errorf("drop order wrong:\n%s", strings.Join(plan.Up, "\n"))
	}
}

func TestPlanViewCycleFailsWithStageError(t *testing.T) {
	old := snapshot()
	new := snapshot()
	new.Views = []schema.View{
		{Name: "v1", Definition: "SELECT * FROM v2", DependsOn: []string{"v2"}},
		{Name: "v2", Definition: "SELECT * FROM v1", DependsOn: []string{"v1"}},
	}

	p, _ := NewPlanner("postgres")
	_, err := p.Plan(old, new)
	if err == nil {
		t.Fatal("expected stage error for view cycle")
	}
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != "views" {
		t.Errorf("err = %v", err)
	}
	var cycleErr *schema.CycleError
	if !errors.As(err, &cycleErr) {
		t.Errorf("stage error should wrap the cycle error, got %v", err)
	}
}

func TestPlanMySQLInlinesNamedEnums(t *testing.T) {
	new := snapshot()

	p, _ := NewPlanner("mysql")
	plan, err := p.Plan(&schema.Schema{}, new)
	if err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(plan.Up, "\n")
	if strings.Contains(joined, "CREATE TYPE") {
		t.Errorf("mysql must not create enum types:\n%s", joined)
	}
	if !strings.Contains(joined, "ENUM('draft', 'published')") {
		t.Errorf("named enum should inline its values:\n%s", joined)
	}
}

func TestPlanMySQLEnumValueAddRewritesColumns(t *testing.T) {
	// MySQL carries enum values inside every column definition, so growing
	// the value set must restate each column typed with the enum.
	old := snapshot()
	new := snapshot()
	new.Enums[0].Values = append(new.Enums[0].Values, "archived")

	p, _ := NewPlanner("mysql")
	plan, err := p.Plan(old, new)
	if err != nil {
		t.Fatal(err)
	}

	wantUp := "ALTER TABLE `posts` MODIFY COLUMN `status` ENUM('draft', 'published', 'archived') NOT NULL"
	if len(plan.Up) != 1 || plan.Up[0] != wantUp {
		t.Errorf("up = %v", plan.Up)
	}
	wantDown := "ALTER TABLE `posts` MODIFY COLUMN `status` ENUM('draft', 'published') NOT NULL"
	if len(plan.Down) != 1 || plan.Down[0] != wantDown {
		t.Errorf("down = %v", plan.Down)
	}
}

func TestPlanSQLiteEnumValueAddRecreatesTable(t *testing.T) {
	old := snapshot()
	new := snapshot()
	new.Enums[0].Values = append(new.Enums[0].Values, "archived")

	p, _ := NewPlanner("sqlite")
	plan, err := p.Plan(old, new)
	if err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(plan.Up, "\n")
	rebuilds := strings.Count(joined, `CREATE TABLE "_schemaflow_new_posts"`)
	if rebuilds != 1 {
		t.Errorf("expected exactly 1 rebuild of posts, got %d:\n%s", rebuilds, joined)
	}
	if strings.Contains(joined, `"_schemaflow_new_users"`) {
		t.Errorf("users has no enum columns and must not be rebuilt:\n%s", joined)
	}
	if !strings.Contains(joined, "IN ('draft', 'published', 'archived')") {
		t.Errorf("rebuilt check must carry the new value:\n%s", joined)
	}

	// The rollback rebuilds posts with the original value set.
	down := strings.Join(plan.Down, "\n")
	if !strings.Contains(down, `CREATE TABLE "_schemaflow_new_posts"`) ||
		strings.Contains(down, "'archived'") {
		t.Errorf("down must restore the two-value check:\n%s", down)
	}
}

func TestPlanDropsConstraintByPreRenameName(t *testing.T) {
	// Renaming a table does not rename its constraints, so dropping one in
	// the same migration must address it by the name it was created under.
	old := snapshot()
	new := snapshot()
	new.Tables[0].Name = "accounts"
	new.Tables[0].RenamedFrom = "users"
	new.Tables[0].Constraints = new.Tables[0].Constraints[:1] // drop unique

	p, _ := NewPlanner("postgres")
	plan, err := p.Plan(old, new)
	if err != nil {
		t.Fatal(err)
	}

	wantUp := []string{
		`ALTER TABLE "users" RENAME TO "accounts"`,
		`ALTER TABLE "accounts" DROP CONSTRAINT IF EXISTS "uq_users_email"`,
	}
	if !reflect.DeepEqual(plan.Up, wantUp) {
		t.Errorf("up = %v", plan.Up)
	}

	// The reverse rename runs first, so the restored constraint is named
	// for the original table again.
	if len(plan.Down) != 2 || plan.Down[0] != `ALTER TABLE "accounts" RENAME TO "users"` {
		t.Errorf("down = %v", plan.Down)
	}
	if !strings.Contains(plan.Down[1], `ADD CONSTRAINT "uq_users_email" UNIQUE`) {
		t.Errorf("down = %v", plan.Down)
	}
}

func TestPlanUpDownRoundTrip(t *testing.T) {
	old := snapshot()
	new := snapshot()
	new.Tables[0].Columns = append(new.Tables[0].Columns,
		schema.Column{Name: "name", Type: schema.ColumnType{Kind: schema.TypeText}, Nullable: true})

	p, _ := NewPlanner("postgres")
	plan, err := p.Plan(old, new)
	if err != nil {
		t.Fatal(err)
	}

	if len(plan.Up) != 1 || !strings.Contains(plan.Up[0], `ADD COLUMN "name" TEXT`) {
		t.Errorf("up = %v", plan.Up)
	}
	if len(plan.Down) != 1 || plan.Down[0] != `ALTER TABLE "users" DROP COLUMN "name"` {
		t.Errorf("down = %v", plan.Down)
	}
}
