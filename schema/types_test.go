package schema

import (
	"testing"
)

func TestColumnTypeString(t *testing.T) {
	cases := []struct {
		typ  ColumnType
		want string
	}{
		{ColumnType{Kind: TypeInteger}, "INTEGER"},
		{ColumnType{Kind: TypeVarchar, Length: 255}, "VARCHAR(255)"},
		{ColumnType{Kind: TypeDecimal, Precision: 10, Scale: 2}, "DECIMAL(10,2)"},
		{ColumnType{Kind: TypeEnum, EnumName: "user_role"}, "user_role"},
		{ColumnType{Kind: TypeEnum, Values: []string{"a", "b"}}, "ENUM('a','b')"},
		{ColumnType{Kind: TypeArray, Elem: &ColumnType{Kind: TypeText}}, "ARRAY(TEXT)"},
		{ColumnType{Kind: TypeBigSerial}, "BIGSERIAL"},
	}

	for _, tc := range cases {
		if got := tc.typ.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestColumnTypeEqual(t *testing.T) {
	a := ColumnType{Kind: TypeVarchar, Length: 100}
	b := ColumnType{Kind: TypeVarchar, Length: 100}
	if !a.Equal(b) {
		t.Error("identical VARCHAR types should be equal")
	}

	b.Length = 200
	if a.Equal(b) {
		t.Error("VARCHAR(100) and VARCHAR(200) should differ")
	}

	e1 := ColumnType{Kind: TypeEnum, Values: []string{"x", "y"}}
	e2 := ColumnType{Kind: TypeEnum, Values: []string{"y", "x"}}
	if e1.Equal(e2) {
		t.Error("enum value order is significant")
	}
}

func TestNarrows(t *testing.T) {
	cases := []struct {
		name string
		from ColumnType
		to   ColumnType
		want bool
	}{
		{"same type", ColumnType{Kind: TypeInteger}, ColumnType{Kind: TypeInteger}, false},
		{"widen int to bigint", ColumnType{Kind: TypeInteger}, ColumnType{Kind: TypeBigInt}, false},
		{"shrink bigint to int", ColumnType{Kind: TypeBigInt}, ColumnType{Kind: TypeInteger}, true},
		{"shrink varchar", ColumnType{Kind: TypeVarchar, Length: 255}, ColumnType{Kind: TypeVarchar, Length: 100}, true},
		{"grow varchar", ColumnType{Kind: TypeVarchar, Length: 100}, ColumnType{Kind: TypeVarchar, Length: 255}, false},
		{"text to varchar", ColumnType{Kind: TypeText}, ColumnType{Kind: TypeVarchar, Length: 255}, true},
		{"varchar to text", ColumnType{Kind: TypeVarchar, Length: 255}, ColumnType{Kind: TypeText}, false},
		{"double to float", ColumnType{Kind: TypeDouble}, ColumnType{Kind: TypeFloat}, true},
		{"shrink decimal precision", ColumnType{Kind: TypeDecimal, Precision: 12, Scale: 2}, ColumnType{Kind: TypeDecimal, Precision: 10, Scale: 2}, true},
		{"timestamp to date", ColumnType{Kind: TypeTimestamp}, ColumnType{Kind: TypeDate}, true},
		{"cross family", ColumnType{Kind: TypeInteger}, ColumnType{Kind: TypeText}, true},
		{"enum fewer values", ColumnType{Kind: TypeEnum, Values: []string{"a", "b", "c"}}, ColumnType{Kind: TypeEnum, Values: []string{"a", "b"}}, true},
		{"enum more values", ColumnType{Kind: TypeEnum, Values: []string{"a"}}, ColumnType{Kind: TypeEnum, Values: []string{"a", "b"}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.Narrows(tc.to); got != tc.want {
				t.Errorf("Narrows(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}
