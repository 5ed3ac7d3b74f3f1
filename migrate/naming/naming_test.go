package naming

import (
	"strings"
	"testing"

	"github.com/satishbabariya/schemaflow/schema"
)

func TestGeneratedNames(t *testing.T) {
	if got := Unique("users", []string{"email"}); got != "uq_users_email" {
		t.Errorf("Unique = %q", got)
	}
	if got := Check("products", []string{"price"}); got != "ck_products_price" {
		t.Errorf("Check = %q", got)
	}
	if got := ForeignKey("posts", []string{"author_id"}, "users"); got != "fk_posts_author_id_users" {
		t.Errorf("ForeignKey = %q", got)
	}
	if got := Unique("users", []string{"tenant_id", "email"}); got != "uq_users_tenant_id_email" {
		t.Errorf("multi-column Unique = %q", got)
	}
}

func TestNamesAreDeterministic(t *testing.T) {
	a := ForeignKey("orders", []string{"customer_id"}, "customers")
	b := ForeignKey("orders", []string{"customer_id"}, "customers")
	if a != b {
		t.Errorf("same input produced %q and %q", a, b)
	}
}

func TestLongNamesTruncateWithHash(t *testing.T) {
	table := strings.Repeat("customer_order_history", 3)
	a := Unique(table, []string{"external_reference_number"})
	b := Unique(table, []string{"external_reference_identifier"})

	if len(a) > MaxIdentifierLength {
		t.Errorf("name %q exceeds %d chars", a, MaxIdentifierLength)
	}
	if len(b) > MaxIdentifierLength {
		t.Errorf("name %q exceeds %d chars", b, MaxIdentifierLength)
	}
	if a == b {
		t.Errorf("different inputs collided after truncation: %q", a)
	}
	// Truncation must stay deterministic too.
	if a != Unique(table, []string{"external_reference_number"}) {
		t.Error("truncated name is not stable")
	}
}

func TestConstraintDispatch(t *testing.T) {
	fk := &schema.Constraint{
		Kind:            schema.ConstraintForeignKey,
		Columns:         []string{"author_id"},
		ReferencedTable: "users",
	}
	if got := Constraint("posts", fk); got != "fk_posts_author_id_users" {
		t.Errorf("Constraint(fk) = %q", got)
	}

	pk := &schema.Constraint{Kind: schema.ConstraintPrimaryKey, Columns: []string{"id"}}
	if got := Constraint("posts", pk); got != "" {
		t.Errorf("primary keys must not get generated names, got %q", got)
	}
}
