package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goto/sieve/core/filter"
	"github.com/goto/sieve/core/record"
	"github.com/goto/sieve/core/sorting"
	"gopkg.in/yaml.v2"
)

// parseFile decodes a JSON or YAML file into v, chosen by extension.
func parseFile(filePath string, v interface{}) error {
	b, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	switch filepath.Ext(filePath) {
	case ".json":
		if err := json.Unmarshal(b, v); err != nil {
			return fmt.Errorf("invalid json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, v); err != nil {
			return fmt.Errorf("invalid yaml: %w", err)
		}
	default:
		return errUnsupportedFileType
	}

	return nil
}

// parseRecords reads a list of records.
func parseRecords(filePath string) ([]record.Record, error) {
	var raw []interface{}
	if err := parseFile(filePath, &raw); err != nil {
		return nil, fmt.Errorf("read records %s: %w", filePath, err)
	}

	records := make([]record.Record, 0, len(raw))
	for i, item := range raw {
		r, ok := record.Normalize(item).(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("read records %s: item %d is not an object", filePath, i)
		}
		records = append(records, r)
	}
	return records, nil
}

func parseSchema(filePath string) (record.Schema, error) {
	var schema record.Schema
	if err := parseFile(filePath, &schema); err != nil {
		return nil, fmt.Errorf("read schema %s: %w", filePath, err)
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", filePath, err)
	}
	return schema, nil
}

// parseFilter reads field:operator:value. List operators take comma
// separated values.
func parseFilter(s string) (filter.Filter, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return filter.Filter{}, fmt.Errorf("invalid filter %q, expected field:operator:value", s)
	}

	f := filter.Filter{
		Field:    strings.TrimSpace(parts[0]),
		Operator: filter.Operator(strings.TrimSpace(parts[1])),
	}
	switch f.Operator {
	case filter.OperatorIn, filter.OperatorNotIn, filter.OperatorBetween:
		var values []interface{}
		for _, v := range strings.Split(parts[2], ",") {
			values = append(values, parseScalar(v))
		}
		f.Value = values
	case filter.OperatorContains, filter.OperatorStartsWith, filter.OperatorEndsWith, filter.OperatorRegex:
		f.Value = parts[2]
	default:
		f.Value = parseScalar(parts[2])
	}

	if err := f.Validate(); err != nil {
		return filter.Filter{}, err
	}
	return f, nil
}

// parseScalar reads numbers and booleans, everything else is a string.
// Double quotes force a string.
func parseScalar(s string) interface{} {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// parseSort reads field[:asc|desc].
func parseSort(s string) (*sorting.Config, error) {
	field, dir := s, string(sorting.DirectionAsc)
	if i := strings.LastIndex(s, ":"); i >= 0 {
		field, dir = s[:i], s[i+1:]
	}

	cfg := &sorting.Config{
		Field:     strings.TrimSpace(field),
		Direction: sorting.Direction(strings.ToLower(strings.TrimSpace(dir))),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func prettyPrint(i interface{}) string {
	s, _ := json.MarshalIndent(i, "", "\t")
	return string(s)
}
