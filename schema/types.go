package schema

import (
	"fmt"
	"strings"
)

// TypeKind identifies a column type variant. The set is closed: every dialect
// generator switches over it exhaustively, so adding a kind is a
// compile-time-visible change everywhere it must be handled.
type TypeKind int

const (
	TypeInteger TypeKind = iota
	TypeBigInt
	TypeSmallInt
	TypeVarchar
	TypeText
	TypeBoolean
	TypeTimestamp
	TypeDate
	TypeTime
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeJSON
	TypeBlob
	TypeUUID
	// Dialect-specific kinds.
	TypeSerial
	TypeBigSerial
	TypeEnum
	TypeArray
)

// ColumnType is a tagged variant over dialect-common and dialect-specific
// column types. Only the fields relevant to the Kind are set.
type ColumnType struct {
	Kind      TypeKind
	Length    int      // VARCHAR(n)
	Precision int      // DECIMAL(p,s)
	Scale     int      // DECIMAL(p,s)
	EnumName  string   // reference to a named EnumType
	Values    []string // inline ENUM('a','b') values
	Elem      *ColumnType
}

// Equal reports structural equality of two column types.
func (t ColumnType) Equal(other ColumnType) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case TypeVarchar:
		return t.Length == other.Length
	case TypeDecimal:
		return t.Precision == other.Precision && t.Scale == other.Scale
	case TypeEnum:
		if t.EnumName != other.EnumName || len(t.Values) != len(other.Values) {
			return false
		}
		for i, v := range t.Values {
			if v != other.Values[i] {
				return false
			}
		}
		return true
	case TypeArray:
		if (t.Elem == nil) != (other.Elem == nil) {
			return false
		}
		if t.Elem == nil {
			return true
		}
		return t.Elem.Equal(*other.Elem)
	default:
		return true
	}
}

// String renders the canonical expression form of the type, the same
// notation snapshot files use.
func (t ColumnType) String() string {
	switch t.Kind {
	case TypeInteger:
		return "INTEGER"
	case TypeBigInt:
		return "BIGINT"
	case TypeSmallInt:
		return "SMALLINT"
	case TypeVarchar:
		return fmt.Sprintf("VARCHAR(%d)", t.Length)
	case TypeText:
		return "TEXT"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeTimestamp:
		return "TIMESTAMP"
	case TypeDate:
		return "DATE"
	case TypeTime:
		return "TIME"
	case TypeFloat:
		return "FLOAT"
	case TypeDouble:
		return "DOUBLE"
	case TypeDecimal:
		return fmt.Sprintf("DECIMAL(%d,%d)", t.Precision, t.Scale)
	case TypeJSON:
		return "JSON"
	case TypeBlob:
		return "BLOB"
	case TypeUUID:
		return "UUID"
	case TypeSerial:
		return "SERIAL"
	case TypeBigSerial:
		return "BIGSERIAL"
	case TypeEnum:
		if t.EnumName != "" {
			return t.EnumName
		}
		quoted := make([]string, len(t.Values))
		for i, v := range t.Values {
			quoted[i] = "'" + v + "'"
		}
		return fmt.Sprintf("ENUM(%s)", strings.Join(quoted, ","))
	case TypeArray:
		if t.Elem == nil {
			return "ARRAY(TEXT)"
		}
		return fmt.Sprintf("ARRAY(%s)", t.Elem.String())
	default:
		return "TEXT"
	}
}

// Narrows reports whether changing a column from t to next can lose
// representable values. Used by destructive-change classification.
func (t ColumnType) Narrows(next ColumnType) bool {
	if t.Equal(next) {
		return false
	}
	switch t.Kind {
	case TypeBigInt, TypeBigSerial:
		switch next.Kind {
		case TypeInteger, TypeSmallInt, TypeSerial:
			return true
		}
	case TypeInteger, TypeSerial:
		if next.Kind == TypeSmallInt {
			return true
		}
	case TypeVarchar:
		if next.Kind == TypeVarchar && next.Length < t.Length {
			return true
		}
	case TypeText:
		if next.Kind == TypeVarchar {
			return true
		}
	case TypeDouble:
		if next.Kind == TypeFloat {
			return true
		}
	case TypeDecimal:
		if next.Kind == TypeDecimal && (next.Precision < t.Precision || next.Scale < t.Scale) {
			return true
		}
	case TypeTimestamp:
		if next.Kind == TypeDate || next.Kind == TypeTime {
			return true
		}
	case TypeEnum:
		if next.Kind == TypeEnum && len(next.Values) < len(t.Values) {
			return true
		}
	}
	// A kind change between unrelated families is treated as narrowing:
	// the representable value sets are not comparable.
	if t.Kind != next.Kind && !sameTypeFamily(t.Kind, next.Kind) {
		return true
	}
	return false
}

func sameTypeFamily(a, b TypeKind) bool {
	family := func(k TypeKind) int {
		switch k {
		case TypeSmallInt, TypeInteger, TypeBigInt, TypeSerial, TypeBigSerial:
			return 1
		case TypeVarchar, TypeText:
			return 2
		case TypeFloat, TypeDouble, TypeDecimal:
			return 3
		case TypeTimestamp, TypeDate, TypeTime:
			return 4
		default:
			return 0
		}
	}
	fa, fb := family(a), family(b)
	return fa != 0 && fa == fb
}
