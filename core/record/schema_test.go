package record_test

import (
	"testing"
	"time"

	"github.com/goto/sieve/core/record"
	"github.com/stretchr/testify/assert"
)

func TestDiscover(t *testing.T) {
	t.Run("should return empty schema for nil or empty sample", func(t *testing.T) {
		assert.Empty(t, record.Discover(nil))
		assert.Empty(t, record.Discover(record.Record{}))
	})

	t.Run("should discover string and number leaves through nested objects", func(t *testing.T) {
		sample := record.Record{
			"name":      "Rahul Sharma",
			"segment":   "VIP",
			"loanCount": 3,
			"address": map[string]interface{}{
				"city": "Pune",
				"geo": map[string]interface{}{
					"lat": 18.52,
				},
			},
			"tags":     []interface{}{"a", "b"},
			"active":   true,
			"openedAt": time.Now(),
			"closedAt": nil,
		}

		got := record.Discover(sample)

		assert.Equal(t, record.Schema{
			{Path: "address.city", Type: record.FieldTypeString},
			{Path: "address.geo.lat", Type: record.FieldTypeNumber},
			{Path: "loanCount", Type: record.FieldTypeNumber},
			{Path: "name", Type: record.FieldTypeString},
			{Path: "segment", Type: record.FieldTypeString},
		}, got)
	})

	t.Run("should produce the same order across calls", func(t *testing.T) {
		sample := record.Record{"b": "1", "a": "2", "c": map[string]interface{}{"z": 1, "y": 2}}
		first := record.Discover(sample).Paths()
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, record.Discover(sample).Paths())
		}
	})
}

func TestSchemaValidate(t *testing.T) {
	type testCase struct {
		Description string
		Schema      record.Schema
		ErrString   string
	}
	testCases := []testCase{
		{
			Description: "valid schema",
			Schema: record.Schema{
				{Path: "name", Type: record.FieldTypeString},
				{Path: "lastInteraction", Type: record.FieldTypeDate},
			},
		},
		{
			Description: "unknown type",
			Schema:      record.Schema{{Path: "name", Type: "blob"}},
			ErrString:   "field 0: error value \"blob\" for key \"type\" not recognized, only support \"string number date\"",
		},
		{
			Description: "empty path",
			Schema:      record.Schema{{Type: record.FieldTypeNumber}},
			ErrString:   "field 0: path is required",
		},
		{
			Description: "duplicate path",
			Schema: record.Schema{
				{Path: "name", Type: record.FieldTypeString},
				{Path: "name", Type: record.FieldTypeString},
			},
			ErrString: "duplicate field path \"name\"",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			err := tc.Schema.Validate()
			if tc.ErrString == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.ErrString)
		})
	}
}

func TestSchemaLookup(t *testing.T) {
	s := record.Schema{{Path: "totalValue", Type: record.FieldTypeNumber}}

	f, ok := s.Lookup("totalValue")
	assert.True(t, ok)
	assert.Equal(t, record.FieldTypeNumber, f.Type)

	_, ok = s.Lookup("name")
	assert.False(t, ok)
}
