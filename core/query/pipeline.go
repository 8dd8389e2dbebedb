package query

import (
	"github.com/goto/sieve/core/filter"
	"github.com/goto/sieve/core/record"
	"github.com/goto/sieve/core/search"
	"github.com/goto/sieve/core/sorting"
)

// Input is the user controlled part of a list view.
type Input struct {
	Query   string          `json:"query"`
	Filters []filter.Filter `json:"filters"`
	Sort    *sorting.Config `json:"sort,omitempty"`
}

// Run computes the visible list for in: rank with the search engine, keep
// the ranked items that pass every filter, then sort when a sort is set.
// Without a sort the ranked order is kept. The sort honours the field
// types declared in schema.
func Run(records []record.Record, in Input, opts search.Options, schema record.Schema) []record.Record {
	ranked := search.NewEngine(records, opts, search.WithSchema(schema)).Search(in.Query)

	items := make([]record.Record, 0, len(ranked))
	for _, r := range ranked {
		items = append(items, r.Item)
	}

	filtered := filter.Apply(items, in.Filters)
	if in.Sort == nil {
		return filtered
	}
	return sorting.Sort(filtered, *in.Sort, sorting.WithSchema(schema))
}
