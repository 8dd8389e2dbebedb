package search

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/goto/sieve/core/record"
)

// Engine ranks a fixed record collection against free-text queries.
type Engine struct {
	records []record.Record
	opts    Options
	schema  record.Schema
	fields  []string
}

type EngineOption func(*Engine)

// WithSchema supplies the searchable fields explicitly instead of
// discovering them from the first record.
func WithSchema(schema record.Schema) EngineOption {
	return func(e *Engine) {
		e.schema = schema
	}
}

func NewEngine(records []record.Record, opts Options, engineOpts ...EngineOption) *Engine {
	e := &Engine{
		records: records,
		opts:    opts,
	}
	for _, opt := range engineOpts {
		opt(e)
	}
	e.fields = e.resolveFields()
	return e
}

// Fields returns the field paths scored for every record.
func (e *Engine) Fields() []string {
	return e.fields
}

func (e *Engine) resolveFields() []string {
	switch {
	case len(e.opts.Fields) > 0:
		return e.opts.Fields
	case len(e.schema) > 0:
		return e.schema.Paths()
	case len(e.records) > 0:
		return record.Discover(e.records[0]).Paths()
	}
	return nil
}

// Search returns the records matching query ordered by descending score.
// A blank query matches every record with score 1 in collection order.
func (e *Engine) Search(query string) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return e.all()
	}

	results := make([]Result, 0)
	for _, r := range e.records {
		res, ok := e.score(r, query)
		if !ok {
			continue
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if e.opts.Limit > 0 && uint(len(results)) > e.opts.Limit {
		results = results[:e.opts.Limit]
	}
	return results
}

func (e *Engine) all() []Result {
	results := make([]Result, 0, len(e.records))
	for _, r := range e.records {
		results = append(results, Result{
			Item:       r,
			Score:      1,
			Matches:    []string{},
			Highlights: map[string]string{},
		})
	}
	return results
}

func (e *Engine) score(r record.Record, query string) (Result, bool) {
	var (
		total      float64
		matches    []string
		highlights = map[string]string{}
	)

	for _, field := range e.fields {
		v, ok := record.Lookup(r, field)
		if !ok || !scorable(v) {
			continue
		}

		text := record.Stringify(v)
		s := Score(query, text, e.opts)
		if s <= 0 || s < e.opts.Threshold {
			continue
		}

		total += s
		matches = append(matches, field)
		highlights[field] = Highlight(query, text, e.opts.CaseSensitive)
	}

	if len(matches) == 0 {
		return Result{}, false
	}

	return Result{
		Item:       r,
		Score:      total / float64(len(matches)),
		Matches:    matches,
		Highlights: highlights,
	}, true
}

// scorable reports whether v is a leaf value that can be rendered as text.
func scorable(v interface{}) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(time.Time); ok {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Ptr, reflect.Func, reflect.Chan:
		return false
	}
	return true
}
