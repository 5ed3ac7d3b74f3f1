// Package snapshot loads declarative schema snapshots from YAML files.
package snapshot

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"

	"github.com/satishbabariya/schemaflow/schema"
	"github.com/satishbabariya/schemaflow/schema/typeparse"
)

type schemaDoc struct {
	Tables []tableDoc `yaml:"tables"`
	Enums  []enumDoc  `yaml:"enums"`
	Views  []viewDoc  `yaml:"views"`
}

type tableDoc struct {
	Name        string          `yaml:"name"`
	RenamedFrom string          `yaml:"renamed_from"`
	Columns     []columnDoc     `yaml:"columns"`
	Constraints []constraintDoc `yaml:"constraints"`
	Indexes     []indexDoc      `yaml:"indexes"`
}

type columnDoc struct {
	Name          string  `yaml:"name"`
	Type          string  `yaml:"type"`
	Nullable      bool    `yaml:"nullable"`
	Default       *string `yaml:"default"`
	AutoIncrement bool    `yaml:"auto_increment"`
	RenamedFrom   string  `yaml:"renamed_from"`
}

type constraintDoc struct {
	Kind              string   `yaml:"kind"`
	Columns           []string `yaml:"columns"`
	References        string   `yaml:"references"`
	ReferencedColumns []string `yaml:"referenced_columns"`
	Expression        string   `yaml:"expression"`
}

type indexDoc struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique"`
}

type enumDoc struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

type viewDoc struct {
	Name        string   `yaml:"name"`
	Definition  string   `yaml:"definition"`
	DependsOn   []string `yaml:"depends_on"`
	RenamedFrom string   `yaml:"renamed_from"`
}

// Load reads and parses a snapshot file through the given filesystem.
func Load(fs afero.Fs, path string) (*schema.Schema, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML snapshot document into a Schema.
func Parse(data []byte) (*schema.Schema, error) {
	var doc schemaDoc
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, err
	}

	s := &schema.Schema{}
	for _, td := range doc.Tables {
		table, err := convertTable(td)
		if err != nil {
			return nil, err
		}
		s.Tables = append(s.Tables, table)
	}
	for _, ed := range doc.Enums {
		s.Enums = append(s.Enums, schema.EnumType{Name: ed.Name, Values: ed.Values})
	}
	for _, vd := range doc.Views {
		s.Views = append(s.Views, schema.View{
			Name:        vd.Name,
			Definition:  vd.Definition,
			DependsOn:   vd.DependsOn,
			RenamedFrom: vd.RenamedFrom,
		})
	}
	return s, nil
}

func convertTable(td tableDoc) (schema.Table, error) {
	table := schema.Table{Name: td.Name, RenamedFrom: td.RenamedFrom}

	for _, cd := range td.Columns {
		colType, err := typeparse.Parse(cd.Type)
		if err != nil {
			return schema.Table{}, fmt.Errorf("table %s, column %s: %w", td.Name, cd.Name, err)
		}
		table.Columns = append(table.Columns, schema.Column{
			Name:          cd.Name,
			Type:          colType,
			Nullable:      cd.Nullable,
			Default:       cd.Default,
			AutoIncrement: cd.AutoIncrement,
			RenamedFrom:   cd.RenamedFrom,
		})
	}

	for _, kd := range td.Constraints {
		constraint, err := convertConstraint(td.Name, kd)
		if err != nil {
			return schema.Table{}, err
		}
		table.Constraints = append(table.Constraints, constraint)
	}

	for _, id := range td.Indexes {
		table.Indexes = append(table.Indexes, schema.Index{
			Name:     id.Name,
			Columns:  id.Columns,
			IsUnique: id.Unique,
		})
	}

	return table, nil
}

func convertConstraint(tableName string, kd constraintDoc) (schema.Constraint, error) {
	var kind schema.ConstraintKind
	switch kd.Kind {
	case "primary_key":
		kind = schema.ConstraintPrimaryKey
	case "foreign_key":
		kind = schema.ConstraintForeignKey
	case "unique":
		kind = schema.ConstraintUnique
	case "check":
		kind = schema.ConstraintCheck
	default:
		return schema.Constraint{}, fmt.Errorf("table %s: unknown constraint kind %q", tableName, kd.Kind)
	}
	return schema.Constraint{
		Kind:              kind,
		Columns:           kd.Columns,
		ReferencedTable:   kd.References,
		ReferencedColumns: kd.ReferencedColumns,
		Expression:        kd.Expression,
	}, nil
}
