package search_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/goto/sieve/core/record"
	"github.com/goto/sieve/core/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customers() []record.Record {
	return []record.Record{
		{"name": "Rahul Sharma"},
		{"name": "Rahul Verma"},
		{"name": "Priya Patel"},
	}
}

func names(results []search.Result) []string {
	var out []string
	for _, r := range results {
		out = append(out, r.Item["name"].(string))
	}
	return out
}

func TestEngineSearch(t *testing.T) {
	opts := search.Options{Fuzzy: true, Threshold: 0.6, Limit: 50}

	t.Run("should rank substring matches and exclude non matches", func(t *testing.T) {
		results := search.NewEngine(customers(), opts).Search("Rahul")

		require.Len(t, results, 2)
		// the shorter field is covered more by the query
		assert.Equal(t, []string{"Rahul Verma", "Rahul Sharma"}, names(results))
		for _, r := range results {
			assert.Equal(t, []string{"name"}, r.Matches)
			assert.GreaterOrEqual(t, r.Score, 0.9)
			assert.Contains(t, r.Highlights["name"], "<mark>Rahul</mark>")
		}
	})

	t.Run("should find near misses through fuzzy scoring", func(t *testing.T) {
		results := search.NewEngine(customers(), opts).Search("Rahul Sharmaa")

		require.Len(t, results, 1)
		assert.Equal(t, "Rahul Sharma", results[0].Item["name"])
		assert.Equal(t, []string{"name"}, results[0].Matches)
		assert.Less(t, results[0].Score, 0.9)
		assert.Equal(t, "Rahul Sharma", results[0].Highlights["name"])
	})

	t.Run("should pass every record through on blank query", func(t *testing.T) {
		for _, q := range []string{"", "   ", "\t"} {
			results := search.NewEngine(customers(), search.Options{Limit: 1, Threshold: 1}).Search(q)

			require.Len(t, results, 3)
			assert.Equal(t, []string{"Rahul Sharma", "Rahul Verma", "Priya Patel"}, names(results))
			for _, r := range results {
				assert.Equal(t, 1.0, r.Score)
				assert.Empty(t, r.Matches)
				assert.NotNil(t, r.Highlights)
				assert.Empty(t, r.Highlights)
			}
		}
	})

	t.Run("should never return more results when threshold rises", func(t *testing.T) {
		records := append(customers(),
			record.Record{"name": "Rahul Sharmila"},
			record.Record{"name": "Raul Sarma"},
		)
		prev := len(records) + 1
		for _, th := range []float64{0, 0.1, 0.3, 0.5, 0.6, 0.8, 0.9, 0.95, 1} {
			o := opts
			o.Threshold = th
			n := len(search.NewEngine(records, o).Search("Rahul Sharma"))
			assert.LessOrEqual(t, n, prev, "threshold %v", th)
			prev = n
		}
	})

	t.Run("should cap results at limit", func(t *testing.T) {
		o := opts
		o.Limit = 1
		results := search.NewEngine(customers(), o).Search("Rahul")
		assert.Equal(t, []string{"Rahul Verma"}, names(results))
	})

	t.Run("should keep encounter order for equal scores", func(t *testing.T) {
		records := []record.Record{
			{"id": 1.0, "name": "Anil Kumar"},
			{"id": 2.0, "name": "Ravi Kumar"},
			{"id": 3.0, "name": "Kumar Anil"},
		}
		results := search.NewEngine(records, search.Options{Fields: []string{"name"}}).Search("Kumar")
		require.Len(t, results, 3)
		var ids []float64
		for _, r := range results {
			ids = append(ids, r.Item["id"].(float64))
		}
		assert.Equal(t, []float64{1, 2, 3}, ids)
	})

	t.Run("should average scores over matched fields only", func(t *testing.T) {
		records := []record.Record{
			{"name": "Rahul", "city": "Rahulnagar", "segment": "SME"},
		}
		results := search.NewEngine(records, search.Options{Threshold: 0.5}).Search("rahul")
		require.Len(t, results, 1)

		want := (search.Score("rahul", "Rahul", search.Options{}) + search.Score("rahul", "Rahulnagar", search.Options{})) / 2
		assert.InDelta(t, want, results[0].Score, 1e-9)
		assert.Equal(t, []string{"city", "name"}, results[0].Matches)
	})

	t.Run("should search nested fields and skip nil values", func(t *testing.T) {
		records := []record.Record{
			{"name": "Priya Patel", "loan": map[string]interface{}{"officer": "Meera Rao", "amount": 250000.0}},
			{"name": "Arjun Das", "loan": map[string]interface{}{"officer": nil, "amount": 120000.0}},
		}
		e := search.NewEngine(records, search.Options{Threshold: 0.5})
		assert.Equal(t, []string{"loan.amount", "loan.officer", "name"}, e.Fields())

		results := e.Search("meera")
		require.Len(t, results, 1)
		assert.Equal(t, []string{"loan.officer"}, results[0].Matches)

		results = e.Search("120000")
		require.Len(t, results, 1)
		assert.Equal(t, "Arjun Das", results[0].Item["name"])
	})

	t.Run("should honour the field allow-list", func(t *testing.T) {
		records := []record.Record{{"name": "Priya", "city": "Rahuri"}}
		o := search.Options{Fields: []string{"name"}, Threshold: 0.5}
		assert.Empty(t, search.NewEngine(records, o).Search("Rahuri"))
	})

	t.Run("should use an explicit schema over discovery", func(t *testing.T) {
		records := []record.Record{
			{"name": "Priya", "notes": "call Rahul"},
			{"name": "Rahul"},
		}
		schema := record.Schema{{Path: "name", Type: record.FieldTypeString}}
		results := search.NewEngine(records, search.Options{Threshold: 0.5}, search.WithSchema(schema)).Search("Rahul")
		assert.Equal(t, []string{"Rahul"}, names(results))
	})

	t.Run("should match nothing when no field can be discovered", func(t *testing.T) {
		records := []record.Record{{}, {"name": "Rahul"}}
		e := search.NewEngine(records, opts)
		assert.Empty(t, e.Fields())
		assert.Empty(t, e.Search("Rahul"))
		assert.Len(t, e.Search(""), 2)

		assert.Empty(t, search.NewEngine(nil, opts).Search("Rahul"))
	})

	t.Run("should not mutate input records", func(t *testing.T) {
		records := customers()
		before := customers()
		_ = search.NewEngine(records, opts).Search("Rahul")
		if diff := cmp.Diff(before, records); diff != "" {
			t.Errorf("records mutated (-want +got):\n%s", diff)
		}
	})
}

func TestEngineSuggest(t *testing.T) {
	records := []record.Record{
		{"name": "Rahul Sharma", "segment": "VIP"},
		{"name": "Rahul Verma", "segment": "SME"},
		{"name": "Priya Patel", "segment": "VIP"},
	}
	e := search.NewEngine(records, search.DefaultOptions())

	t.Run("should return nothing for blank prefix", func(t *testing.T) {
		assert.Nil(t, e.Suggest("  ", 5))
	})

	t.Run("should return distinct matching values", func(t *testing.T) {
		got := e.Suggest("Rahul", 5)
		assert.ElementsMatch(t, []string{"Rahul Sharma", "Rahul Verma"}, got)
	})

	t.Run("should cap suggestions", func(t *testing.T) {
		assert.Len(t, e.Suggest("a", 2), 2)
	})
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, search.DefaultOptions().Validate())
	assert.EqualError(t, search.Options{Threshold: 1.2}.Validate(), "threshold cannot be greater than 1")
	assert.EqualError(t, search.Options{Threshold: -0.1}.Validate(), "threshold cannot be less than 0")
}
