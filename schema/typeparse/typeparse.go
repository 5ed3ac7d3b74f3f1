// Package typeparse parses the compact column type expressions used by
// snapshot files, e.g. VARCHAR(255), DECIMAL(10,2), ENUM('a','b'),
// ARRAY(TEXT), into the tagged schema.ColumnType variant. An identifier that
// is not a built-in type is taken as a named enum reference; the schema
// validator checks that it resolves.
package typeparse

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/satishbabariya/schemaflow/schema"
)

var typeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Number", Pattern: `\d+`},
	{Name: "String", Pattern: `'[^']*'`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

type typeExpr struct {
	Name string    `parser:"@Ident"`
	Args *typeArgs `parser:"( '(' @@ ')' )?"`
}

type typeArgs struct {
	Numbers []int     `parser:"  @Number ( ',' @Number )*"`
	Strings []string  `parser:"| @String ( ',' @String )*"`
	Elem    *typeExpr `parser:"| @@"`
}

var parser = participle.MustBuild[typeExpr](
	participle.Lexer(typeLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parse converts a type expression into a ColumnType.
func Parse(input string) (schema.ColumnType, error) {
	expr, err := parser.ParseString("", input)
	if err != nil {
		return schema.ColumnType{}, fmt.Errorf("invalid type expression %q: %w", input, err)
	}
	return convert(expr)
}

func convert(expr *typeExpr) (schema.ColumnType, error) {
	name := strings.ToUpper(expr.Name)

	switch name {
	case "INTEGER", "INT":
		return schema.ColumnType{Kind: schema.TypeInteger}, nil
	case "BIGINT":
		return schema.ColumnType{Kind: schema.TypeBigInt}, nil
	case "SMALLINT":
		return schema.ColumnType{Kind: schema.TypeSmallInt}, nil
	case "VARCHAR":
		if expr.Args == nil || len(expr.Args.Numbers) != 1 {
			return schema.ColumnType{}, fmt.Errorf("VARCHAR requires a single length argument")
		}
		return schema.ColumnType{Kind: schema.TypeVarchar, Length: expr.Args.Numbers[0]}, nil
	case "TEXT", "STRING":
		return schema.ColumnType{Kind: schema.TypeText}, nil
	case "BOOLEAN", "BOOL":
		return schema.ColumnType{Kind: schema.TypeBoolean}, nil
	case "TIMESTAMP", "DATETIME":
		return schema.ColumnType{Kind: schema.TypeTimestamp}, nil
	case "DATE":
		return schema.ColumnType{Kind: schema.TypeDate}, nil
	case "TIME":
		return schema.ColumnType{Kind: schema.TypeTime}, nil
	case "FLOAT", "REAL":
		return schema.ColumnType{Kind: schema.TypeFloat}, nil
	case "DOUBLE":
		return schema.ColumnType{Kind: schema.TypeDouble}, nil
	case "DECIMAL", "NUMERIC":
		if expr.Args == nil || len(expr.Args.Numbers) != 2 {
			return schema.ColumnType{}, fmt.Errorf("%s requires precision and scale arguments", name)
		}
		return schema.ColumnType{
			Kind:      schema.TypeDecimal,
			Precision: expr.Args.Numbers[0],
			Scale:     expr.Args.Numbers[1],
		}, nil
	case "JSON", "JSONB":
		return schema.ColumnType{Kind: schema.TypeJSON}, nil
	case "BLOB", "BYTEA":
		return schema.ColumnType{Kind: schema.TypeBlob}, nil
	case "UUID":
		return schema.ColumnType{Kind: schema.TypeUUID}, nil
	case "SERIAL":
		return schema.ColumnType{Kind: schema.TypeSerial}, nil
	case "BIGSERIAL":
		return schema.ColumnType{Kind: schema.TypeBigSerial}, nil
	case "ENUM":
		if expr.Args == nil || len(expr.Args.Strings) == 0 {
			return schema.ColumnType{}, fmt.Errorf("ENUM requires at least one quoted value")
		}
		values := make([]string, len(expr.Args.Strings))
		for i, s := range expr.Args.Strings {
			values[i] = strings.Trim(s, "'")
		}
		return schema.ColumnType{Kind: schema.TypeEnum, Values: values}, nil
	case "ARRAY":
		if expr.Args == nil || expr.Args.Elem == nil {
			return schema.ColumnType{}, fmt.Errorf("ARRAY requires an element type argument")
		}
		elem, err := convert(expr.Args.Elem)
		if err != nil {
			return schema.ColumnType{}, err
		}
		return schema.ColumnType{Kind: schema.TypeArray, Elem: &elem}, nil
	default:
		if expr.Args != nil {
			return schema.ColumnType{}, fmt.Errorf("unknown parameterized type %q", expr.Name)
		}
		// Named enum reference, resolved during schema validation.
		return schema.ColumnType{Kind: schema.TypeEnum, EnumName: expr.Name}, nil
	}
}
