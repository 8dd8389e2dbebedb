package search

import (
	"strings"

	"github.com/goto/sieve/core/record"
	"github.com/sahilm/fuzzy"
)

const defaultMaxSuggestions = 10

// Suggest returns distinct field values that fuzzily match prefix, best
// first. It powers type-ahead in search boxes.
func (e *Engine) Suggest(prefix string, max int) []string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil
	}
	if max <= 0 {
		max = defaultMaxSuggestions
	}

	matches := fuzzy.Find(prefix, e.values())

	suggestions := make([]string, 0, max)
	for _, m := range matches {
		if len(suggestions) == max {
			break
		}
		suggestions = append(suggestions, m.Str)
	}
	return suggestions
}

// values collects distinct field values in collection order.
func (e *Engine) values() []string {
	seen := make(map[string]bool)
	var values []string
	for _, r := range e.records {
		for _, field := range e.fields {
			v, ok := record.Lookup(r, field)
			if !ok || !scorable(v) {
				continue
			}
			text := record.Stringify(v)
			if text == "" || seen[text] {
				continue
			}
			seen[text] = true
			values = append(values, text)
		}
	}
	return values
}
