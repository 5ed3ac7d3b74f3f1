package snapshot

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/satishbabariya/schemaflow/schema"
)

const sampleSnapshot = `
enums:
  - name: post_status
    values: [draft, published]

tables:
  - name: users
    columns:
      - name: id
        type: SERIAL
      - name: email
        type: VARCHAR(255)
      - name: bio
        type: TEXT
        nullable: true
    constraints:
      - kind: primary_key
        columns: [id]
      - kind: unique
        columns: [email]
    indexes:
      - name: idx_users_email
        columns: [email]
        unique: true

  - name: posts
    columns:
      - name: id
        type: SERIAL
      - name: status
        type: post_status
      - name: author_id
        type: INTEGER
    constraints:
      - kind: primary_key
        columns: [id]
      - kind: foreign_key
        columns: [author_id]
        references: users
        referenced_columns: [id]

views:
  - name: published_posts
    definition: SELECT * FROM posts WHERE status = 'published'
    depends_on: [posts]
`

func TestParseSnapshot(t *testing.T) {
	s, err := Parse([]byte(sampleSnapshot))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(s.Tables) != 2 || len(s.Enums) != 1 || len(s.Views) != 1 {
		t.Fatalf("got %d tables, %d enums, %d views", len(s.Tables), len(s.Enums), len(s.Views))
	}

	users := s.Table("users")
	if users == nil {
		t.Fatal("missing users table")
	}
	if len(users.Columns) != 3 {
		t.Fatalf("users has %d columns", len(users.Columns))
	}
	email := users.Column("email")
	if email == nil || email.Type.Kind != schema.TypeVarchar || email.Type.Length != 255 {
		t.Errorf("email column = %+v", email)
	}
	if !users.Column("bio").Nullable {
		t.Error("bio should be nullable")
	}
	if users.PrimaryKey() == nil {
		t.Error("missing primary key")
	}
	if len(users.Indexes) != 1 || !users.Indexes[0].IsUnique {
		t.Errorf("indexes = %+v", users.Indexes)
	}

	status := s.Table("posts").Column("status")
	if status.Type.Kind != schema.TypeEnum || status.Type.EnumName != "post_status" {
		t.Errorf("status type = %+v, want named enum reference", status.Type)
	}

	fk := s.Table("posts").Constraints[1]
	if fk.Kind != schema.ConstraintForeignKey || fk.ReferencedTable != "users" {
		t.Errorf("fk = %+v", fk)
	}
}

func TestParseRejectsUnknownConstraintKind(t *testing.T) {
	doc := `
tables:
  - name: t
    columns:
      - name: id
        type: INTEGER
    constraints:
      - kind: exclusion
        columns: [id]
`
	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected error for unknown constraint kind")
	}
	if !strings.Contains(err.Error(), "exclusion") {
		t.Errorf("error should name the kind: %v", err)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	doc := `
tables:
  - name: t
    colums:
      - name: id
`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatal("expected strict decoding to reject misspelled field")
	}
}

func TestParseRejectsBadType(t *testing.T) {
	doc := `
tables:
  - name: t
    columns:
      - name: id
        type: VARCHAR
`
	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected error for VARCHAR without length")
	}
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/schema.yaml", []byte(sampleSnapshot), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(fs, "/schema.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(s.Tables) != 2 {
		t.Errorf("got %d tables", len(s.Tables))
	}

	if _, err := Load(fs, "/missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
