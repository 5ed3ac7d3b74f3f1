package typeparse

import (
	"testing"

	"github.com/satishbabariya/schemaflow/schema"
)

func TestParseBuiltins(t *testing.T) {
	cases := []struct {
		input string
		want  schema.ColumnType
	}{
		{"INT", schema.ColumnType{Kind: schema.TypeInteger}},
		{"integer", schema.ColumnType{Kind: schema.TypeInteger}},
		{"BIGINT", schema.ColumnType{Kind: schema.TypeBigInt}},
		{"VARCHAR(255)", schema.ColumnType{Kind: schema.TypeVarchar, Length: 255}},
		{"TEXT", schema.ColumnType{Kind: schema.TypeText}},
		{"DECIMAL(10, 2)", schema.ColumnType{Kind: schema.TypeDecimal, Precision: 10, Scale: 2}},
		{"JSONB", schema.ColumnType{Kind: schema.TypeJSON}},
		{"SERIAL", schema.ColumnType{Kind: schema.TypeSerial}},
		{"DATETIME", schema.ColumnType{Kind: schema.TypeTimestamp}},
		{"UUID", schema.ColumnType{Kind: schema.TypeUUID}},
	}

	for _, tc := range cases {
		got, err := Parse(tc.input)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tc.input, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("Parse(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestParseInlineEnum(t *testing.T) {
	got, err := Parse("ENUM('draft', 'published', 'archived')")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got.Kind != schema.TypeEnum {
		t.Fatalf("expected enum kind, got %v", got.Kind)
	}
	want := []string{"draft", "published", "archived"}
	if len(got.Values) != len(want) {
		t.Fatalf("values = %v, want %v", got.Values, want)
	}
	for i, v := range want {
		if got.Values[i] != v {
			t.Errorf("values[%d] = %q, want %q", i, got.Values[i], v)
		}
	}
}

func TestParseArray(t *testing.T) {
	got, err := Parse("ARRAY(VARCHAR(50))")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got.Kind != schema.TypeArray {
		t.Fatalf("expected array kind, got %v", got.Kind)
	}
	if got.Elem == nil || got.Elem.Kind != schema.TypeVarchar || got.Elem.Length != 50 {
		t.Errorf("elem = %+v, want VARCHAR(50)", got.Elem)
	}
}

func TestParseNamedEnumReference(t *testing.T) {
	got, err := Parse("user_role")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got.Kind != schema.TypeEnum || got.EnumName != "user_role" {
		t.Errorf("got %+v, want named enum reference user_role", got)
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"VARCHAR",
		"VARCHAR(1,2)",
		"DECIMAL(10)",
		"ENUM()",
		"ARRAY",
		"unknown_type(3)",
	}
	for _, input := range inputs {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}
