package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is a single item that can be searched, filtered and sorted.
// Nested objects are represented as Record or map[string]interface{}.
type Record = map[string]interface{}

const pathSeparator = "."

// Lookup walks a dotted field path through r. A missing key or a
// non-object intermediate value yields (nil, false).
func Lookup(r Record, path string) (interface{}, bool) {
	if r == nil || path == "" {
		return nil, false
	}

	var current interface{} = r
	for _, key := range strings.Split(path, pathSeparator) {
		obj, ok := asObject(current)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Value is Lookup without the presence flag.
func Value(r Record, path string) interface{} {
	v, _ := Lookup(r, path)
	return v
}

// IsScalar reports whether v is a string or a number.
func IsScalar(v interface{}) bool {
	if _, ok := v.(string); ok {
		return true
	}
	_, ok := Number(v)
	return ok
}

// Number returns v as float64 when v holds a numeric value.
func Number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Stringify renders a value the way it is matched against text queries
// and string filter operators.
func Stringify(v interface{}) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case bool:
		return strconv.FormatBool(tv)
	case time.Time:
		return tv.Format(time.RFC3339)
	case json.Number:
		return tv.String()
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(tv), 'f', -1, 32)
	case fmt.Stringer:
		return tv.String()
	}
	if n, ok := Number(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func asObject(v interface{}) (map[string]interface{}, bool) {
	switch obj := v.(type) {
	case map[string]interface{}:
		return obj, true
	case map[string]string:
		m := make(map[string]interface{}, len(obj))
		for k, val := range obj {
			m[k] = val
		}
		return m, true
	}
	return nil, false
}

// Normalize converts the generic map shapes produced by YAML decoders
// (map[interface{}]interface{}) into Record values, recursively.
func Normalize(v interface{}) interface{} {
	switch tv := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(tv))
		for k, val := range tv {
			m[fmt.Sprint(k)] = Normalize(val)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(tv))
		for k, val := range tv {
			m[k] = Normalize(val)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(tv))
		for i, val := range tv {
			s[i] = Normalize(val)
		}
		return s
	}
	return v
}
