package record

import (
	"fmt"
	"sort"

	"github.com/goto/sieve/core/validator"
)

type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeNumber FieldType = "number"
	FieldTypeDate   FieldType = "date"
)

// FieldSpec describes one searchable attribute of a record.
type FieldSpec struct {
	Path string    `json:"path" yaml:"path" validate:"required"`
	Type FieldType `json:"type" yaml:"type" validate:"required,oneof=string number date"`
}

// Schema is an ordered list of field descriptors. The order is the
// iteration order used when scoring and highlighting.
type Schema []FieldSpec

// Paths returns the field paths in schema order.
func (s Schema) Paths() []string {
	paths := make([]string, 0, len(s))
	for _, f := range s {
		paths = append(paths, f.Path)
	}
	return paths
}

// Lookup returns the descriptor registered for path.
func (s Schema) Lookup(path string) (FieldSpec, bool) {
	for _, f := range s {
		if f.Path == path {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func (s Schema) Validate() error {
	seen := make(map[string]bool, len(s))
	for i := range s {
		if err := validator.ValidateStruct(s[i]); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
		if seen[s[i].Path] {
			return fmt.Errorf("duplicate field path %q", s[i].Path)
		}
		seen[s[i].Path] = true
	}
	return nil
}

// Discover inspects a sample record and returns a descriptor for every
// leaf holding a string or number value. Nested objects are walked,
// arrays are not. Paths are sorted so the result does not depend on map
// iteration order.
func Discover(sample Record) Schema {
	var schema Schema
	discover(sample, "", &schema)
	sort.SliceStable(schema, func(i, j int) bool {
		return schema[i].Path < schema[j].Path
	})
	return schema
}

func discover(obj map[string]interface{}, prefix string, schema *Schema) {
	for key, v := range obj {
		path := key
		if prefix != "" {
			path = prefix + pathSeparator + key
		}

		switch tv := v.(type) {
		case string:
			*schema = append(*schema, FieldSpec{Path: path, Type: FieldTypeString})
		case map[string]interface{}:
			discover(tv, path, schema)
		default:
			if _, ok := Number(v); ok {
				*schema = append(*schema, FieldSpec{Path: path, Type: FieldTypeNumber})
			}
		}
	}
}
