package record_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/goto/sieve/core/record"
	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	r := record.Record{
		"name": "Rahul Sharma",
		"loan": map[string]interface{}{
			"amount": 150000.0,
			"officer": map[string]interface{}{
				"name": "Priya",
			},
		},
		"tags":    []interface{}{"vip"},
		"closing": nil,
	}

	type testCase struct {
		Description string
		Path        string
		Expected    interface{}
		Found       bool
	}
	testCases := []testCase{
		{Description: "top level field", Path: "name", Expected: "Rahul Sharma", Found: true},
		{Description: "nested field", Path: "loan.amount", Expected: 150000.0, Found: true},
		{Description: "deeply nested field", Path: "loan.officer.name", Expected: "Priya", Found: true},
		{Description: "missing leaf", Path: "loan.tenure", Found: false},
		{Description: "missing intermediate", Path: "customer.name", Found: false},
		{Description: "walk through a scalar", Path: "name.first", Found: false},
		{Description: "walk through an array", Path: "tags.0", Found: false},
		{Description: "explicit nil is present", Path: "closing", Expected: nil, Found: true},
		{Description: "empty path", Path: "", Found: false},
	}
	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			v, ok := record.Lookup(r, tc.Path)
			assert.Equal(t, tc.Found, ok)
			assert.Equal(t, tc.Expected, v)
		})
	}
}

func TestStringify(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "", record.Stringify(nil))
	assert.Equal(t, "abc", record.Stringify("abc"))
	assert.Equal(t, "150000", record.Stringify(150000.0))
	assert.Equal(t, "0.25", record.Stringify(0.25))
	assert.Equal(t, "42", record.Stringify(42))
	assert.Equal(t, "7", record.Stringify(uint8(7)))
	assert.Equal(t, "true", record.Stringify(true))
	assert.Equal(t, "12.5", record.Stringify(json.Number("12.5")))
	assert.Equal(t, "2024-03-01T10:00:00Z", record.Stringify(ts))
}

func TestNumber(t *testing.T) {
	n, ok := record.Number(int64(12))
	assert.True(t, ok)
	assert.Equal(t, 12.0, n)

	_, ok = record.Number("12")
	assert.False(t, ok)

	_, ok = record.Number(json.Number("abc"))
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	in := map[interface{}]interface{}{
		"name": "Rahul",
		"loan": map[interface{}]interface{}{
			"amount": 100,
		},
		"docs": []interface{}{
			map[interface{}]interface{}{"kind": "pan"},
		},
	}

	got := record.Normalize(in)

	assert.Equal(t, map[string]interface{}{
		"name": "Rahul",
		"loan": map[string]interface{}{
			"amount": 100,
		},
		"docs": []interface{}{
			map[string]interface{}{"kind": "pan"},
		},
	}, got)
}
